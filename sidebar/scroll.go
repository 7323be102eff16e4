package sidebar

import (
	"io"
	"strconv"
	"strings"

	"github.com/almonk/booknav/tree"
	"github.com/charmbracelet/log"
)

// DefaultScrollKey is the storage key for the saved scroll offset.
const DefaultScrollKey = "sidebar-scroll"

// Store is storage scoped to one browsing tab. Take must read and delete a
// key in one step so that no later reader can observe the same value.
type Store interface {
	Put(key, value string) error
	Take(key string) (value string, ok bool, err error)
}

// Viewport is the scrollable container the sidebar is rendered in.
type Viewport interface {
	ScrollTop() int
	SetScrollTop(offset int)
	// CenterOn brings the node's row to the vertical middle. Hosts may
	// defer it until after layout; callers never wait on it.
	CenterOn(n *tree.Node)
}

// ScrollPersister carries the sidebar's scroll offset across one page
// navigation.
type ScrollPersister struct {
	store  Store
	key    string
	logger *log.Logger
}

// NewScrollPersister returns a persister writing under key. A nil store
// disables persistence.
func NewScrollPersister(store Store, key string, logger *log.Logger) *ScrollPersister {
	if key == "" {
		key = DefaultScrollKey
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ScrollPersister{store: store, key: key, logger: logger}
}

// Record saves offset for the next mount.
func (p *ScrollPersister) Record(offset int) error {
	if p.store == nil {
		return nil
	}
	return p.store.Put(p.key, strconv.Itoa(offset))
}

// Restore consumes the saved offset. Missing, malformed and negative
// values all report ok == false; the key is gone afterwards either way.
func (p *ScrollPersister) Restore() (offset int, ok bool) {
	if p.store == nil {
		return 0, false
	}
	raw, found, err := p.store.Take(p.key)
	if err != nil {
		p.logger.Warn("reading scroll offset", "key", p.key, "err", err)
		return 0, false
	}
	if !found {
		return 0, false
	}
	offset, err = strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || offset < 0 {
		p.logger.Debug("ignoring saved scroll offset", "key", p.key, "value", raw)
		return 0, false
	}
	return offset, true
}
