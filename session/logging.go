package session

import (
	"github.com/almonk/booknav/sidebar"
	"github.com/charmbracelet/log"
)

// Logging wraps a store and logs every access.
type Logging struct {
	inner  sidebar.Store
	logger *log.Logger
}

// NewLogging returns a logging decorator around inner.
func NewLogging(inner sidebar.Store, logger *log.Logger) *Logging {
	return &Logging{inner: inner, logger: logger}
}

func (l *Logging) Put(key, value string) error {
	err := l.inner.Put(key, value)
	if err != nil {
		l.logger.Error("session put", "key", key, "err", err)
		return err
	}
	l.logger.Debug("session put", "key", key, "value", value)
	return nil
}

func (l *Logging) Take(key string) (string, bool, error) {
	v, ok, err := l.inner.Take(key)
	if err != nil {
		l.logger.Error("session take", "key", key, "err", err)
		return v, ok, err
	}
	l.logger.Debug("session take", "key", key, "found", ok, "value", v)
	return v, ok, nil
}
