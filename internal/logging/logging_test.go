package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("quiet")
	logger.Warn("loud", "path", "/tmp/x")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info entry written at warn level: %q", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "path=/tmp/x") {
		t.Errorf("warn entry missing: %q", out)
	}
}

func TestOpen_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "contactbook.log")

	for _, msg := range []string{"first", "second"} {
		logger, closeFn, err := Open(path, "info")
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		logger.Info(msg)
		if err := closeFn(); err != nil {
			t.Fatalf("close error = %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "msg=first") || !strings.Contains(out, "msg=second") {
		t.Errorf("log file = %q, want both entries", out)
	}
}

func TestOpen_EmptyPathDiscards(t *testing.T) {
	logger, closeFn, err := Open("", "debug")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	logger.Info("dropped")
	if err := closeFn(); err != nil {
		t.Errorf("close error = %v", err)
	}
}

func TestOpen_BadDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	_, _, err := Open(filepath.Join(blocker, "x.log"), "info")
	if err == nil {
		t.Fatal("Open() under a regular file should fail")
	}
}
