package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/almonk/booknav/config"
	"github.com/almonk/booknav/session"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	m := NewMain()
	if err := m.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// ConfigPath is read when no --config flag is given.
	ConfigPath string

	// DBPath is the session database used by the sqlite store.
	DBPath string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: config.ConfigPath(),
		DBPath:     session.DefaultPath(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 && (args[0] == "-v" || args[0] == "--version") {
		fmt.Fprintf(stdout, "booknav %s\n", Version)
		return nil
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("booknav"),
		kong.Description("Browse a book's table of contents the way its sidebar would"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'booknav --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfgPath := m.ConfigPath
	if cli.Config != "" {
		cfgPath = cli.Config
	}
	cfg, err := config.LoadFrom(cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	dbPath := m.DBPath
	if cli.DB != "" {
		dbPath = cli.DB
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Config: cfg,
		DBPath: dbPath,
	}
	defer deps.Close()

	return kongCtx.Run(deps)
}
