package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/rolodex"
	"github.com/smileynet/rolodex/internal/config"
	"github.com/smileynet/rolodex/internal/contact"
	"github.com/smileynet/rolodex/internal/logging"
	"github.com/smileynet/rolodex/internal/shell"
	"github.com/smileynet/rolodex/internal/state"
	"github.com/smileynet/rolodex/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals holds flags shared by every command.
type Globals struct {
	Debug bool `help:"Log diagnostics at debug level to stderr."`
}

// CLI is the top-level command structure for rolodex.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Shell   ShellCmd         `cmd:"" default:"withargs" help:"Start the interactive contact menu (default)."`
	Browse  BrowseCmd        `cmd:"" help:"Browse a contact file in a full-screen view."`
	Init    InitCmd          `cmd:"" help:"Write the default config to .rolodex/config.yaml."`
}

// projectConfigPath is the project-level config layer, relative to the working directory.
const projectConfigPath = ".rolodex/config.yaml"

// errNoTTY is returned by browse when stdout is not a terminal.
var errNoTTY = errors.New("requires a terminal (TTY)")

// loadConfig loads layered config from user and project paths with env overrides
// and builds the diagnostic logger it describes.
func loadConfig(g *Globals) (*config.Config, logging.Logger, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/rolodex/config.yaml"),
		projectConfigPath,
	)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, nil, err
	}
	if g.Debug {
		cfg.Log.Level = string(logging.LevelDebug)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(os.Stderr, cfg.LogLevel()), nil
}

// newFileStore builds the persistence layer from config.
func newFileStore(cfg *config.Config, log logging.Logger) *state.FileStore {
	return state.NewFileStore(
		state.WithIndent(cfg.File.Indent),
		state.WithLogger(log),
	)
}

// ShellCmd runs the interactive numbered menu.
type ShellCmd struct {
	Load string `help:"Contact file to load before the first menu." placeholder:"FILE"`
}

// Run executes the shell command.
func (s *ShellCmd) Run(g *Globals) error {
	cfg, log, err := loadConfig(g)
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	return s.run(os.Stdin, os.Stdout, contact.NewStore(), newFileStore(cfg, log), cfg.File.Default, log)
}

// run preloads the optional file and runs the menu loop, enabling testable wiring.
// A failed preload is reported like a failed menu load and the session continues.
func (s *ShellCmd) run(r io.Reader, w io.Writer, store *contact.Store, files shell.Persister, defaultFile string, log logging.Logger) error {
	if s.Load != "" {
		if err := files.Load(store, s.Load); err != nil {
			_, _ = fmt.Fprintf(w, "Failed to load contacts: %v\n", err)
		} else {
			_, _ = fmt.Fprintf(w, "Contacts loaded from %s\n", s.Load)
		}
	}

	sh := shell.New(store, files,
		shell.WithInput(r),
		shell.WithOutput(w),
		shell.WithLogger(log),
		shell.WithDefaultFile(defaultFile),
	)
	return sh.Run()
}

// BrowseCmd opens the full-screen contact browser.
type BrowseCmd struct {
	File string `arg:"" optional:"" help:"Contact file to browse (default: file.default from config)."`
}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run loads the file and launches the browser.
func (b *BrowseCmd) Run(g *Globals) error {
	isTTY := isTerminal(os.Stdout.Fd())
	if !isTTY {
		return b.run(isTTY, nil)
	}

	cfg, log, err := loadConfig(g)
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}

	path := b.path(cfg)
	store, err := b.load(newFileStore(cfg, log), path)
	if err != nil {
		return err
	}

	prog := tea.NewProgram(tui.NewModel(store, path), tea.WithAltScreen())
	return b.run(isTTY, prog)
}

// isTerminal reports whether fd is a terminal, including Cygwin and MSYS ptys.
func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// path returns the file argument or the configured default.
func (b *BrowseCmd) path(cfg *config.Config) string {
	if b.File != "" {
		return b.File
	}
	return cfg.File.Default
}

// load reads path into a fresh store.
func (b *BrowseCmd) load(files shell.Persister, path string) (*contact.Store, error) {
	store := contact.NewStore()
	if err := files.Load(store, path); err != nil {
		return nil, fmt.Errorf("browse: %w", err)
	}
	return store, nil
}

// run executes the tea program, enabling testable wiring.
func (b *BrowseCmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("browse: %w", errNoTTY)
	}
	_, err := prog.Run()
	return err
}

// InitCmd writes the embedded default config to the project config path.
type InitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

// Run executes the init command.
func (i *InitCmd) Run() error {
	return i.run(os.Stdout, projectConfigPath)
}

// run writes the template to path, enabling testable wiring.
func (i *InitCmd) run(w io.Writer, path string) error {
	if _, err := os.Stat(path); err == nil && !i.Force {
		return fmt.Errorf("init: %s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("init: creating directory: %w", err)
	}
	if err := os.WriteFile(path, rolodex.ConfigTemplate, 0o644); err != nil {
		return fmt.Errorf("init: writing %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

// Exit codes.
const (
	exitSuccess = 0
	exitRuntime = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, state.ErrRead) || errors.Is(err, state.ErrParse) || errors.Is(err, state.ErrWrite) ||
		errors.Is(err, shell.ErrInput) {
		return exitRuntime
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("rolodex"),
		kong.Description("Interactive contact manager."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
