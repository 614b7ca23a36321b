//go:build smoke

package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
)

// TestSmoke_Binary builds contactbook and drives it as a user would: the
// headless commands through pipes and the TUI through a pseudo-terminal.
//
// Subtests run sequentially and depend on the first subtest building the binary.
func TestSmoke_Binary(t *testing.T) {
	projectRoot := findProjectRoot(t)
	binary := filepath.Join(t.TempDir(), "contactbook")
	dataDir := t.TempDir()

	t.Run("go build produces a binary", func(t *testing.T) {
		cmd := exec.Command("go", "build",
			"-ldflags", "-X main.version=smoke-test -X main.commit=abc1234 -X main.date=2026-01-01",
			"-o", binary, "./cmd/contactbook")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("go build failed: %v\n%s", err, out)
		}
	})

	t.Run("version prints version commit and date", func(t *testing.T) {
		out, _ := smokeCommand(t, binary, dataDir, "--version").CombinedOutput()
		for _, want := range []string{"smoke-test", "abc1234", "2026-01-01"} {
			if !strings.Contains(string(out), want) {
				t.Errorf("version output = %q, want to contain %q", out, want)
			}
		}
	})

	t.Run("add and list without a terminal", func(t *testing.T) {
		if out, err := smokeCommand(t, binary, dataDir, "add", "Ann", "555-1", "a@x.com").CombinedOutput(); err != nil {
			t.Fatalf("add failed: %v\n%s", err, out)
		}
		out, err := smokeCommand(t, binary, dataDir, "list", "--plain").Output()
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if string(out) != "Ann - 555-1 - a@x.com\n" {
			t.Errorf("list --plain = %q", out)
		}
	})

	t.Run("ui without a terminal exits 2", func(t *testing.T) {
		err := smokeCommand(t, binary, dataDir).Run()
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != exitUsage {
			t.Errorf("err = %v, want exit code %d", err, exitUsage)
		}
	})

	t.Run("ui adds a contact through the form", func(t *testing.T) {
		cmd := smokeCommand(t, binary, dataDir)
		ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 24, Cols: 100})
		if err != nil {
			t.Fatalf("failed to start with PTY: %v", err)
		}
		t.Cleanup(func() {
			ptmx.Close()
			if cmd.Process != nil {
				cmd.Process.Kill()
				cmd.Wait()
			}
		})

		readPTYUntil(t, ptmx, "Contacts (1)", 5*time.Second)

		ptmx.Write([]byte("Bob\r555-2\rb@x.com\r"))
		ptmx.Write([]byte("a"))
		readPTYUntil(t, ptmx, "Added Bob", 5*time.Second)
		ptmx.Write([]byte("q"))

		done := make(chan error, 1)
		go func() { done <- cmd.Wait() }()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("contactbook did not exit after q")
		}

		out, err := smokeCommand(t, binary, dataDir, "list", "--plain").Output()
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(string(out), "Bob - 555-2 - b@x.com") {
			t.Errorf("list after ui = %q, want Bob", out)
		}
	})
}

func smokeCommand(t *testing.T, binary, dataDir string, args ...string) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(binary, append([]string{"--data-dir", dataDir}, args...)...)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"XDG_CONFIG_HOME="+t.TempDir(),
		"CONTACTBOOK_LOG_FILE="+filepath.Join(dataDir, "smoke.log"),
	)
	return cmd
}

// readPTYUntil reads from the PTY until the target string appears or timeout.
func readPTYUntil(t *testing.T, ptmx *os.File, target string, timeout time.Duration) string {
	t.Helper()
	var buf bytes.Buffer
	deadline := time.After(timeout)
	tmp := make([]byte, 4096)

	for {
		ptmx.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, err := ptmx.Read(tmp)
		if n > 0 {
			buf.Write(tmp[:n])
			if strings.Contains(stripANSI(buf.String()), target) {
				return buf.String()
			}
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for %q, got so far:\n%s", target, stripANSI(buf.String()))
		default:
		}
		if err != nil && !os.IsTimeout(err) && err != io.EOF {
			return buf.String()
		}
	}
}

// stripANSI removes CSI and OSC escape sequences from a string.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\033' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case '[':
			for i+1 < len(s) && !isLetter(s[i]) {
				i++
			}
		case ']':
			for i+1 < len(s) && s[i] != '\007' {
				i++
			}
		}
	}
	return b.String()
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}
