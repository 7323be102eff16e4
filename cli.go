package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/almonk/booknav/config"
	"github.com/almonk/booknav/session"
	"github.com/almonk/booknav/sidebar"
	"github.com/almonk/booknav/theme"
	"github.com/almonk/booknav/tree"
	"github.com/almonk/booknav/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// Dependencies holds what commands need, bound once Run has parsed the
// arguments and loaded the config.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config
	DBPath string

	closers []io.Closer
}

// Close releases anything opened on behalf of a command.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i].Close())
	}
	d.closers = nil
	return errors.Join(errs...)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `short:"c" type:"path" help:"Config file (default ~/.config/booknav/config)"`
	DB     string `type:"path" help:"Session database for the sqlite store"`

	Browse   BrowseCmd   `cmd:"" default:"withargs" help:"Browse a table of contents interactively"`
	Resolve  ResolveCmd  `cmd:"" help:"Mount at a location and print the sidebar"`
	Navigate NavigateCmd `cmd:"" help:"Record a scroll offset as if a chapter link were followed"`
}

// SessionFlags select where the scroll offset is kept between page views.
type SessionFlags struct {
	Session string `env:"BOOKNAV_SESSION" help:"Session ID (default: the parent process ID)"`
	Store   string `help:"Session store: sqlite or memory (default from config)"`
}

// SidebarFlags override the sidebar settings from the config file.
type SidebarFlags struct {
	RootPath  string `name:"root-path" help:"Prefix for relative chapter links"`
	FoldLevel *int   `name:"fold-level" help:"Open sections shallower than this depth on every mount"`
}

// BrowseCmd is the "browse" subcommand.
type BrowseCmd struct {
	TOC      string `arg:"" type:"existingfile" help:"Table of contents (.json, .yaml, .html or .js)"`
	Location string `short:"l" help:"Page the sidebar is shown on (default: the first chapter)"`
	NoWatch  bool   `name:"no-watch" help:"Do not reload when the file changes"`
	LogFile  string `name:"log-file" type:"path" help:"Write logs to this file"`

	SessionFlags `embed:""`
	SidebarFlags `embed:""`
}

// ResolveCmd is the "resolve" subcommand.
type ResolveCmd struct {
	TOC      string `arg:"" type:"existingfile" help:"Table of contents"`
	Location string `short:"l" required:"" help:"Page the sidebar is shown on"`
	All      bool   `short:"a" help:"List every chapter, not just the visible rows"`

	SessionFlags `embed:""`
	SidebarFlags `embed:""`
}

// NavigateCmd is the "navigate" subcommand.
type NavigateCmd struct {
	TOC    string `arg:"" type:"existingfile" help:"Table of contents"`
	Href   string `required:"" help:"Resolved link of the chapter followed"`
	Offset int    `required:"" help:"Sidebar scroll offset when the link was followed"`

	SessionFlags `embed:""`
	SidebarFlags `embed:""`
}

func (c *BrowseCmd) Run(deps *Dependencies) error {
	cfg := deps.Config

	logOut := io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		deps.closers = append(deps.closers, f)
		logOut = f
	}
	logger := newLogger(logOut, cfg.LogLevel)

	th, err := theme.Load(cfg.Theme)
	if err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	ui.ApplyTheme(th)

	t, err := tree.Load(c.TOC)
	if err != nil {
		return err
	}
	store, err := deps.openStore(c.SessionFlags, logger)
	if err != nil {
		return err
	}
	factory := sidebarFactory(cfg, c.SidebarFlags, store, logger)

	location := c.Location
	if location == "" {
		location = firstLink(factory(t))
	}

	model, err := ui.New(t, factory, location, cfg, ui.Options{
		TOCPath: c.TOC,
		Watch:   !c.NoWatch,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(deps.Ctx))
	_, err = p.Run()
	return err
}

func (c *ResolveCmd) Run(deps *Dependencies) error {
	logger := newLogger(deps.Stderr, deps.Config.LogLevel)

	t, err := tree.Load(c.TOC)
	if err != nil {
		return err
	}
	store, err := deps.openStore(c.SessionFlags, logger)
	if err != nil {
		return err
	}
	sb := sidebarFactory(deps.Config, c.SidebarFlags, store, logger)(t)

	res := sb.Mount(c.Location, fixedOffset(0))
	switch {
	case res.Restored:
		fmt.Fprintf(deps.Stdout, "scroll: restored %d\n", res.Offset)
	case res.Centered:
		fmt.Fprintf(deps.Stdout, "scroll: centered on %s\n", res.Active.Title)
	default:
		fmt.Fprintln(deps.Stdout, "scroll: none")
	}

	rows := sb.Rows()
	if c.All {
		rows = t.Nodes()
	}
	for _, n := range rows {
		fmt.Fprintln(deps.Stdout, formatRow(sb, n))
	}
	return nil
}

func (c *NavigateCmd) Run(deps *Dependencies) error {
	logger := newLogger(deps.Stderr, deps.Config.LogLevel)

	t, err := tree.Load(c.TOC)
	if err != nil {
		return err
	}
	store, err := deps.openStore(c.SessionFlags, logger)
	if err != nil {
		return err
	}
	sb := sidebarFactory(deps.Config, c.SidebarFlags, store, logger)(t)

	for _, n := range t.Nodes() {
		if sb.Href(n) != c.Href {
			continue
		}
		href, ok := sb.Navigate(n, fixedOffset(c.Offset))
		if !ok {
			break
		}
		fmt.Fprintln(deps.Stdout, href)
		return nil
	}
	return fmt.Errorf("no chapter links to %q", c.Href)
}

// fixedOffset is a viewport that only reports a scroll position.
type fixedOffset int

func (f fixedOffset) ScrollTop() int    { return int(f) }
func (fixedOffset) SetScrollTop(int)    {}
func (fixedOffset) CenterOn(*tree.Node) {}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          "booknav",
		Level:           level,
		ReportTimestamp: true,
	})
}

// openStore opens the session store named by the flags, or by the config
// when the flag is unset.
func (d *Dependencies) openStore(f SessionFlags, logger *log.Logger) (sidebar.Store, error) {
	kind := d.Config.Store
	if f.Store != "" {
		kind = config.StoreKind(f.Store)
	}

	var store sidebar.Store
	switch kind {
	case config.StoreMemory:
		store = session.NewMemory()
	case config.StoreSQLite:
		id := f.Session
		if id == "" {
			id = fmt.Sprint(os.Getppid())
		}
		db, err := session.OpenSQLite(d.DBPath, id)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, db)
		store = db
		logger.Debug("session store", "path", d.DBPath, "session", id)
	default:
		return nil, fmt.Errorf("unknown store %q (want sqlite or memory)", kind)
	}
	return session.NewLogging(store, logger), nil
}

// sidebarFactory builds sidebars from the config, with flags taking
// precedence.
func sidebarFactory(cfg *config.Config, f SidebarFlags, store sidebar.Store, logger *log.Logger) ui.Factory {
	root := cfg.RootPath
	if f.RootPath != "" {
		root = f.RootPath
	}
	fold := cfg.FoldLevel
	if f.FoldLevel != nil {
		fold = *f.FoldLevel
	}
	opts := []sidebar.Option{
		sidebar.WithRootPath(root),
		sidebar.WithIndexDocument(cfg.IndexDocument),
		sidebar.WithAliasIndex(cfg.AliasIndex),
		sidebar.WithScrollKey(cfg.ScrollKey),
		sidebar.WithFoldLevel(fold),
		sidebar.WithLogger(logger),
	}
	return func(t *tree.Tree) *sidebar.Sidebar {
		return sidebar.New(t, store, opts...)
	}
}

// firstLink returns the first resolved link in document order.
func firstLink(sb *sidebar.Sidebar) string {
	for _, n := range sb.Tree().Nodes() {
		if href := sb.Href(n); href != "" {
			return href
		}
	}
	return ""
}

// formatRow renders one row as: indentation, a state marker, the label
// and the resolved link. Markers: '*' active, '-' open section, '+'
// closed section.
func formatRow(sb *sidebar.Sidebar, n *tree.Node) string {
	marker := " "
	switch {
	case sb.IsActive(n):
		marker = "*"
	case n.IsLeaf():
	case sb.IsExpanded(n):
		marker = "-"
	default:
		marker = "+"
	}
	line := strings.Repeat("  ", n.Depth) + marker + " " + n.Label()
	if href := sb.Href(n); href != "" {
		line += " (" + href + ")"
	}
	return line
}
