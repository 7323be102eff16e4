package ui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

type tocChangedMsg struct{}

type watchErrMsg struct{ err error }

// debounce collapses the burst of events an editor save produces.
const debounce = 150 * time.Millisecond

// Watcher reports changes to the table of contents file. It watches the
// parent directory so that atomic saves (write to temp, rename over) are
// seen too.
type Watcher struct {
	fs      *fsnotify.Watcher
	path    string
	changes chan tea.Msg
	done    chan struct{}
	logger  *log.Logger
}

// NewWatcher starts watching path.
func NewWatcher(path string, logger *log.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		fs:      fsw,
		path:    abs,
		changes: make(chan tea.Msg, 1),
		done:    make(chan struct{}),
		logger:  logger,
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("toc changed", "path", w.path, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.send(tocChangedMsg{})

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.send(watchErrMsg{err: err})
		}
	}
}

// send drops the message if one is already waiting; one reload covers both.
func (w *Watcher) send(msg tea.Msg) {
	select {
	case w.changes <- msg:
	default:
	}
}

// Wait returns a command that blocks until the next change.
func (w *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-w.changes:
			return msg
		case <-w.done:
			return nil
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	return w.fs.Close()
}
