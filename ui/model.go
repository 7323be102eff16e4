package ui

import (
	"io"
	"time"

	"github.com/almonk/booknav/config"
	"github.com/almonk/booknav/sidebar"
	"github.com/almonk/booknav/tree"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type clearFlashMsg struct{}

// Factory builds the sidebar component for a freshly loaded tree.
type Factory func(*tree.Tree) *sidebar.Sidebar

// Model is the Bubble Tea model hosting one sidebar.
type Model struct {
	sb       *sidebar.Sidebar
	factory  Factory
	tocPath  string
	location string

	rows      []*tree.Node
	cursor    int
	width     int
	height    int
	scrollOff int // viewport scroll offset, in rows

	// pendingCenter is a CenterOn request that arrived before the first
	// WindowSizeMsg.
	pendingCenter *tree.Node

	flashMsg   string
	flashError bool
	showHelp   bool

	// Search
	searching          bool
	filtered           bool // search confirmed, filtered list still showing
	searchQuery        string
	searchNodes        []*tree.Node
	searchMatchIndices map[*tree.Node][]int

	// Mouse double-click detection
	lastClickTime time.Time
	lastClickRow  int

	watcher *Watcher
	cfg     *config.Config
	logger  *log.Logger
}

// Options configures New.
type Options struct {
	// TOCPath is watched for changes when Watch is set.
	TOCPath string
	Watch   bool
	Logger  *log.Logger
}

// New loads nothing itself: it mounts a sidebar built by factory from t at
// location.
func New(t *tree.Tree, factory Factory, location string, cfg *config.Config, opts Options) (Model, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		sb:       factory(t),
		factory:  factory,
		tocPath:  opts.TOCPath,
		location: location,
		cfg:      cfg,
		logger:   logger,
	}

	if opts.Watch && opts.TOCPath != "" {
		w, err := NewWatcher(opts.TOCPath, logger)
		if err != nil {
			return Model{}, err
		}
		m.watcher = w
	}

	m.mount()
	return m, nil
}

// Close releases the file watcher.
func (m Model) Close() error {
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}

// Location returns the page currently shown.
func (m Model) Location() string { return m.location }

// Sidebar returns the mounted component.
func (m Model) Sidebar() *sidebar.Sidebar { return m.sb }

// Rows returns the rows currently listed.
func (m Model) Rows() []*tree.Node { return m.rows }

// Cursor returns the selected row index.
func (m Model) Cursor() int { return m.cursor }

// ScrollOff returns the first visible row.
func (m Model) ScrollOff() int { return m.scrollOff }

// SetSize sets the terminal size, as a WindowSizeMsg would.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.pendingCenter != nil {
		n := m.pendingCenter
		m.pendingCenter = nil
		m.CenterOn(n)
	}
	m.clampScroll()
}

// mount starts a new page view at m.location.
func (m *Model) mount() sidebar.MountResult {
	m.clearSearch()
	m.pendingCenter = nil

	res := m.sb.Mount(m.location, m)
	m.rows = m.sb.Rows()

	switch {
	case res.Active != nil:
		if i := m.indexOf(res.Active); i >= 0 {
			m.cursor = i
		}
	case m.cursor >= len(m.rows):
		m.cursor = 0
	}
	if res.Restored {
		m.clampScroll()
	}
	m.logger.Debug("mount", "location", m.location, "restored", res.Restored, "centered", res.Centered)
	return res
}

// ScrollTop implements sidebar.Viewport.
func (m *Model) ScrollTop() int { return m.scrollOff }

// SetScrollTop implements sidebar.Viewport.
func (m *Model) SetScrollTop(offset int) {
	m.scrollOff = offset
}

// CenterOn implements sidebar.Viewport. Before the terminal size is known
// the request is held and applied on the first resize.
func (m *Model) CenterOn(n *tree.Node) {
	if m.height == 0 {
		m.pendingCenter = n
		return
	}
	m.rows = m.sb.Rows()
	i := m.indexOf(n)
	if i < 0 {
		return
	}
	m.cursor = i
	m.scrollOff = i - m.viewportHeight()/2
	m.clampScroll()
}

func (m *Model) indexOf(n *tree.Node) int {
	for i, r := range m.rows {
		if r == n {
			return i
		}
	}
	return -1
}

// refreshRows rebuilds the row list after an expansion change, keeping the
// cursor on the same node where possible.
func (m *Model) refreshRows() {
	var current *tree.Node
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		current = m.rows[m.cursor]
	}
	m.rows = m.sb.Rows()
	if current != nil {
		if i := m.indexOf(current); i >= 0 {
			m.cursor = i
		}
	}
	m.clampCursor()
	m.ensureVisible()
}

func (m *Model) selected() *tree.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

func (m *Model) viewportHeight() int {
	// height minus status bar (1) and search bar (1 if searching)
	h := m.height - 1
	if m.searching {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) clampScroll() {
	if m.height == 0 {
		return
	}
	maxOff := len(m.rows) - m.viewportHeight()
	if m.scrollOff > maxOff {
		m.scrollOff = maxOff
	}
	if m.scrollOff < 0 {
		m.scrollOff = 0
	}
}

func (m *Model) ensureVisible() {
	viewH := m.viewportHeight()
	if m.cursor < m.scrollOff {
		m.scrollOff = m.cursor
	}
	if m.cursor >= m.scrollOff+viewH {
		m.scrollOff = m.cursor - viewH + 1
	}
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.ensureVisible()
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.Wait()
	}
	return nil
}
