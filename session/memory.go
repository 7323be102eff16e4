// Package session provides tab-scoped key/value stores for the sidebar's
// scroll offset.
package session

import (
	"sync"

	"github.com/almonk/booknav/sidebar"
)

var (
	_ sidebar.Store = (*Memory)(nil)
	_ sidebar.Store = (*SQLite)(nil)
	_ sidebar.Store = (*Logging)(nil)
)

// Memory is an in-process store. The zero value is ready to use.
type Memory struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) Put(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[string]string)
	}
	m.items[key] = value
	return nil
}

func (m *Memory) Take(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	delete(m.items, key)
	return v, ok, nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
