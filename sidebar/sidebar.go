// Package sidebar keeps a book's table of contents in step with the page
// being read: it finds the active chapter, opens the sections leading to
// it, carries the scroll offset across navigations, and lets the reader
// fold sections by hand.
//
// A Sidebar is owned by a single UI thread. Hosts call Mount once per page
// view, then Toggle and Navigate from their input handlers.
package sidebar

import (
	"io"

	"github.com/almonk/booknav/tree"
	"github.com/charmbracelet/log"
)

// Sidebar is the navigation component for one page view.
type Sidebar struct {
	tree     *tree.Tree
	resolver Resolver
	resolved []string // by node ID
	scroll   *ScrollPersister
	logger   *log.Logger

	foldLevel int
	scrollKey string

	expanded ExpansionSet
	active   *tree.Node
}

// Option configures a Sidebar.
type Option func(*Sidebar)

// WithRootPath sets the prefix prepended to relative hrefs.
func WithRootPath(root string) Option {
	return func(s *Sidebar) { s.resolver.RootPath = root }
}

// WithIndexDocument sets the document name appended to directory locations.
func WithIndexDocument(name string) Option {
	return func(s *Sidebar) { s.resolver.IndexDocument = name }
}

// WithAliasIndex enables treating the site index as the first chapter.
func WithAliasIndex(on bool) Option {
	return func(s *Sidebar) { s.resolver.AliasIndex = on }
}

// WithBase makes resolved hrefs absolute against base, normally the page
// URL.
func WithBase(base string) Option {
	return func(s *Sidebar) { s.resolver.Base = base }
}

// WithScrollKey overrides the storage key for the scroll offset.
func WithScrollKey(key string) Option {
	return func(s *Sidebar) { s.scrollKey = key }
}

// WithFoldLevel opens every section shallower than level on mount.
func WithFoldLevel(level int) Option {
	return func(s *Sidebar) { s.foldLevel = level }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Sidebar) { s.logger = l }
}

// New returns a sidebar over t. store may be nil, in which case scroll
// positions are not carried between mounts.
func New(t *tree.Tree, store Store, opts ...Option) *Sidebar {
	s := &Sidebar{
		tree:     t,
		resolver: Resolver{AliasIndex: true},
		expanded: make(ExpansionSet),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.scroll = NewScrollPersister(store, s.scrollKey, s.logger)

	s.resolved = make([]string, t.Len())
	for _, n := range t.Nodes() {
		s.resolved[n.ID] = s.resolver.ResolveHref(n.Href)
	}
	return s
}

// MountResult describes what Mount did.
type MountResult struct {
	Active   *tree.Node // nil when the location matches no chapter
	Offset   int        // restored offset, valid when Restored
	Restored bool
	Centered bool
}

// Mount attaches the sidebar to a page showing location. Expansion state
// starts fresh, so toggles from a previous page view do not carry over.
func (s *Sidebar) Mount(location string, vp Viewport) MountResult {
	s.expanded = foldLevel(s.tree, s.foldLevel)
	s.active = s.resolver.Resolve(location, s.tree.Nodes(), s.resolved)
	Propagate(s.expanded, s.active)

	var res MountResult
	res.Active = s.active

	// A saved offset means the reader clicked inside the sidebar, so keep
	// the sidebar where they left it.
	if offset, ok := s.scroll.Restore(); ok {
		res.Offset = offset
		res.Restored = true
		if vp != nil {
			vp.SetScrollTop(offset)
		}
	} else if s.active != nil && vp != nil {
		vp.CenterOn(s.active)
		res.Centered = true
	}

	if s.active != nil {
		s.logger.Debug("mounted", "location", location, "active", s.active.Title, "restored", res.Restored)
	} else {
		s.logger.Debug("mounted without active chapter", "location", location)
	}
	return res
}

// Navigate handles a click on n. It records the viewport's scroll offset
// and returns the resolved href for the host to follow. Headers without a
// page do not navigate.
func (s *Sidebar) Navigate(n *tree.Node, vp Viewport) (string, bool) {
	href := s.Href(n)
	if href == "" {
		return "", false
	}
	offset := 0
	if vp != nil {
		offset = vp.ScrollTop()
	}
	if err := s.scroll.Record(offset); err != nil {
		// The next mount centers instead.
		s.logger.Warn("saving scroll offset", "err", err)
	}
	return href, true
}

// Tree returns the underlying tree.
func (s *Sidebar) Tree() *tree.Tree { return s.tree }

// Active returns the active chapter from the last Mount, or nil.
func (s *Sidebar) Active() *tree.Node { return s.active }

// IsActive reports whether n is the active chapter.
func (s *Sidebar) IsActive(n *tree.Node) bool { return n != nil && n == s.active }

// Href returns n's href resolved against the root path.
func (s *Sidebar) Href(n *tree.Node) string {
	if n == nil || n.ID < 0 || n.ID >= len(s.resolved) {
		return ""
	}
	return s.resolved[n.ID]
}

// Expanded returns a copy of the expansion set.
func (s *Sidebar) Expanded() ExpansionSet { return s.expanded.Clone() }

// Resolver returns the resolver in use.
func (s *Sidebar) Resolver() Resolver { return s.resolver }
