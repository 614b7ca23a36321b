package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/smileynet/contactbook"
	"github.com/smileynet/contactbook/internal/config"
	"github.com/smileynet/contactbook/internal/contact"
	"github.com/smileynet/contactbook/internal/form"
	"github.com/smileynet/contactbook/internal/logging"
	"github.com/smileynet/contactbook/internal/store"
	"github.com/smileynet/contactbook/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1 // Persistence or runtime failure.
	exitUsage   = 2 // Bad arguments, input, or config.
)

var (
	// errUsage marks errors caused by how contactbook was invoked.
	errUsage = errors.New("usage")
	// errNotSaved marks a mutation that was applied but could not be written.
	errNotSaved = errors.New("contacts not saved")
)

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	warnLabel  = color.New(color.FgYellow, color.Bold)
	okLabel    = color.New(color.FgGreen)
)

// Globals holds flags shared by every command.
type Globals struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Config  string           `help:"Extra config file, applied after user and project config." type:"path" placeholder:"PATH"`
	DataDir string           `help:"Directory holding ${file}." type:"path" placeholder:"DIR"`
}

// CLI is the top-level command structure for contactbook.
type CLI struct {
	Globals

	UI     UICmd     `cmd:"" default:"1" help:"Open the interactive address book (default)."`
	List   ListCmd   `cmd:"" help:"Print all contacts."`
	Add    AddCmd    `cmd:"" help:"Add a contact."`
	Edit   EditCmd   `cmd:"" help:"Replace the contact at INDEX."`
	Delete DeleteCmd `cmd:"" help:"Delete the contact at INDEX."`
	Init   InitCmd   `cmd:"" help:"Write the default config file."`
}

// streams carries the command output writers so commands can be tested.
type streams struct {
	out io.Writer
	err io.Writer
}

func (s *streams) warn(format string, args ...any) {
	warnLabel.Fprint(s.err, "warning: ")
	fmt.Fprintf(s.err, format+"\n", args...)
}

func (s *streams) done(format string, args ...any) {
	okLabel.Fprintf(s.out, format+"\n", args...)
}

// loadConfig loads layered config from user, project, and --config paths,
// then applies env and flag overrides.
func (g *Globals) loadConfig() (*config.Config, error) {
	if g.Config != "" {
		if _, err := os.Stat(g.Config); err != nil {
			return nil, fmt.Errorf("%w: config: %w", errUsage, err)
		}
	}
	cfg, err := config.LoadLayered(config.UserPath(), config.ProjectFile, g.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	cfg.ApplyEnv()
	if g.DataDir != "" {
		cfg.Storage.DataDir = g.DataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	return cfg, nil
}

// session is the resolved config, logger, and store for one command.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	closeLog func() error
}

func (s *session) Close() error {
	return s.closeLog()
}

// open resolves config, opens the log, and loads the store. A store that
// failed to load is still returned; the failure is reported on st.
func (g *Globals) open(st *streams) (*session, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.Open(cfg.LogPath(), cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(cfg.Storage.DataDir, store.DefaultFileName)
	s := store.Open(path, store.WithLogger(logger), store.WithFileMode(cfg.FileMode()))
	if err := s.Err(); err != nil {
		st.warn("could not load contacts, starting empty: %v", err)
	}
	return &session{cfg: cfg, logger: logger, store: s, closeLog: closeLog}, nil
}

// saved converts a failed save after a mutation into errNotSaved.
func saved(s *store.Store) error {
	if err := s.Err(); err != nil {
		return fmt.Errorf("%w: %w", errNotSaved, err)
	}
	return nil
}

// --- UI command ---

// UICmd opens the interactive address book.
type UICmd struct{}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds the store and launches the TUI.
func (c *UICmd) Run(g *Globals, st *streams) error {
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("%w: ui: requires a terminal (TTY); use list, add, edit, or delete instead", errUsage)
	}

	sess, err := g.open(st)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	defer sess.Close()

	m := ui.NewModel(sess.store, ui.WithPath(sess.store.Path()))
	var opts []tea.ProgramOption
	if sess.cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if err := c.run(true, tea.NewProgram(m, opts...)); err != nil {
		return err
	}
	if err := sess.store.Err(); err != nil {
		st.warn("last save failed: %v", err)
	}
	return nil
}

// run executes the tea program, enabling testable wiring.
func (c *UICmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("%w: ui: requires a terminal (TTY)", errUsage)
	}
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}

// --- Headless commands ---

// ListCmd prints all contacts.
type ListCmd struct {
	Plain bool `help:"Print one contact per line instead of a table."`
}

// Run executes the list command.
func (c *ListCmd) Run(g *Globals, st *streams) error {
	sess, err := g.open(st)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	defer sess.Close()
	return c.run(st.out, sess.store.List())
}

func (c *ListCmd) run(w io.Writer, contacts []contact.Record) error {
	if c.Plain {
		for _, r := range contacts {
			fmt.Fprintln(w, r)
		}
		return nil
	}
	if len(contacts) == 0 {
		fmt.Fprintln(w, "No contacts yet.")
		return nil
	}
	return writeTable(w, contacts)
}

// writeTable renders contacts as a numbered table.
func writeTable(w io.Writer, contacts []contact.Record) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Name", "Phone", "Email"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignRight, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft}
	})

	data := make([][]string, 0, len(contacts))
	for i, r := range contacts {
		data = append(data, []string{strconv.Itoa(i + 1), r.Name, r.PhoneNumber, r.Email})
	}
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("list: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("list: %w", err)
	}
	return nil
}

// AddCmd appends a contact.
type AddCmd struct {
	Name  string `arg:"" help:"Contact name."`
	Phone string `arg:"" help:"Phone number."`
	Email string `arg:"" help:"Email address."`
}

// Run executes the add command.
func (c *AddCmd) Run(g *Globals, st *streams) error {
	sess, err := g.open(st)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	defer sess.Close()
	return c.run(st, form.NewChecker(), sess.store)
}

func (c *AddCmd) run(st *streams, checker *form.Checker, s *store.Store) error {
	in := form.Input{Name: c.Name, Phone: c.Phone, Email: c.Email}
	r, err := checker.Record(in)
	if err != nil {
		return inputError("add", checker, in, err)
	}
	s.Add(r)
	if err := saved(s); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	st.done("Added #%d: %s", s.Len(), r)
	return nil
}

// EditCmd replaces the contact at a 1-based index.
type EditCmd struct {
	Index int    `arg:"" help:"Contact number as shown by list."`
	Name  string `arg:"" help:"Contact name."`
	Phone string `arg:"" help:"Phone number."`
	Email string `arg:"" help:"Email address."`
}

// Run executes the edit command.
func (c *EditCmd) Run(g *Globals, st *streams) error {
	sess, err := g.open(st)
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	defer sess.Close()
	return c.run(st, form.NewChecker(), sess.store)
}

func (c *EditCmd) run(st *streams, checker *form.Checker, s *store.Store) error {
	in := form.Input{Name: c.Name, Phone: c.Phone, Email: c.Email}
	r, err := checker.Record(in)
	if err != nil {
		return inputError("edit", checker, in, err)
	}
	if err := s.Edit(c.Index-1, r); err != nil {
		return indexError("edit", c.Index, s.Len(), err)
	}
	if err := saved(s); err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	st.done("Updated #%d: %s", c.Index, r)
	return nil
}

// DeleteCmd removes the contact at a 1-based index.
type DeleteCmd struct {
	Index int `arg:"" help:"Contact number as shown by list."`
}

// Run executes the delete command.
func (c *DeleteCmd) Run(g *Globals, st *streams) error {
	sess, err := g.open(st)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	defer sess.Close()
	return c.run(st, sess.store)
}

func (c *DeleteCmd) run(st *streams, s *store.Store) error {
	contacts := s.List()
	if err := s.Delete(c.Index - 1); err != nil {
		return indexError("delete", c.Index, len(contacts), err)
	}
	if err := saved(s); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	st.done("Deleted #%d: %s", c.Index, contacts[c.Index-1])
	return nil
}

// inputError names the fields behind a rejected form.Input.
func inputError(op string, checker *form.Checker, in form.Input, err error) error {
	if missing := checker.MissingFields(in); len(missing) > 0 {
		return fmt.Errorf("%s: %w (empty: %s)", op, err, strings.Join(missing, ", "))
	}
	if invalid := checker.InvalidFields(in); len(invalid) > 0 {
		return fmt.Errorf("%s: %w (%s)", op, err, strings.Join(invalid, ", "))
	}
	return fmt.Errorf("%s: %w", op, err)
}

// indexError reports a contact number outside 1..n.
func indexError(op string, index, n int, err error) error {
	if !errors.Is(err, store.ErrIndexOutOfRange) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: no contact #%d, the address book is empty: %w", op, index, store.ErrIndexOutOfRange)
	}
	return fmt.Errorf("%s: no contact #%d, expected 1-%d: %w", op, index, n, store.ErrIndexOutOfRange)
}

// --- Init command ---

// InitCmd writes the default config file.
type InitCmd struct {
	Path  string `help:"Where to write the config (default: user config path)." type:"path" placeholder:"PATH"`
	Force bool   `help:"Overwrite an existing file."`
}

// Run executes the init command.
func (c *InitCmd) Run(st *streams) error {
	path := c.Path
	if path == "" {
		path = config.UserPath()
	}
	if path == "" {
		return fmt.Errorf("%w: init: no user config directory; pass --path", errUsage)
	}
	return c.run(st, path)
}

func (c *InitCmd) run(st *streams, path string) error {
	if !c.Force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: init: %s already exists (use --force to overwrite)", errUsage, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := os.WriteFile(path, contactbook.DefaultConfigYAML, 0o644); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	st.done("Wrote %s", path)
	return nil
}

// --- Entry point ---

// exitCode maps a command error to a process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errNotSaved):
		return exitFailure
	case errors.Is(err, errUsage),
		errors.Is(err, form.ErrEmptyField),
		errors.Is(err, form.ErrTooLong),
		errors.Is(err, form.ErrInvalidText),
		errors.Is(err, store.ErrIndexOutOfRange):
		return exitUsage
	default:
		return exitFailure
	}
}

// isTerminal reports whether f is connected to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printError(w io.Writer, err error) {
	errorLabel.Fprint(w, "error: ")
	fmt.Fprintln(w, err)
}

func newParser(cli *CLI, st *streams, opts ...kong.Option) (*kong.Kong, error) {
	opts = append([]kong.Option{
		kong.Name(config.AppName),
		kong.Description("A small address book for the terminal."),
		kong.Vars{
			"version": version + " " + commit + " " + date,
			"file":    store.DefaultFileName,
		},
		kong.Writers(st.out, st.err),
		kong.Bind(st),
	}, opts...)
	return kong.New(cli, opts...)
}

// run parses args, executes the selected command, and returns the exit code.
func run(args []string, st *streams) int {
	var cli CLI
	k, err := newParser(&cli, st)
	if err != nil {
		printError(st.err, err)
		return exitFailure
	}
	kctx, err := k.Parse(args)
	if err != nil {
		printError(st.err, err)
		fmt.Fprintf(st.err, "Run %q for usage.\n", config.AppName+" --help")
		return exitUsage
	}
	if err := kctx.Run(&cli.Globals); err != nil {
		printError(st.err, err)
		return exitCode(err)
	}
	return exitSuccess
}

func main() {
	color.NoColor = color.NoColor || !isTerminal(os.Stderr)
	os.Exit(run(os.Args[1:], &streams{out: os.Stdout, err: os.Stderr}))
}
