package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Action represents a named action that can be bound to a key.
type Action string

const (
	ActionQuit         Action = "quit"
	ActionMoveDown     Action = "move_down"
	ActionMoveUp       Action = "move_up"
	ActionGoTop        Action = "go_top"
	ActionGoBottom     Action = "go_bottom"
	ActionHalfPageDown Action = "half_page_down"
	ActionHalfPageUp   Action = "half_page_up"
	ActionExpand       Action = "expand"
	ActionCollapse     Action = "collapse"
	ActionToggle       Action = "toggle"
	ActionNavigate     Action = "navigate"
	ActionCopyHref     Action = "copy_href"
	ActionExpandAll    Action = "expand_all"
	ActionCollapseAll  Action = "collapse_all"
	ActionGoActive     Action = "go_active"
	ActionSearch       Action = "search"
	ActionHelp         Action = "help"
	ActionClearFilter  Action = "clear_filter"

	// Search mode actions
	ActionSearchConfirm   Action = "search_confirm"
	ActionSearchCancel    Action = "search_cancel"
	ActionSearchBackspace Action = "search_backspace"
	ActionSearchNextMatch Action = "search_next_match"
	ActionSearchPrevMatch Action = "search_prev_match"
)

// StoreKind selects where the scroll offset is kept between page views.
type StoreKind string

const (
	StoreSQLite StoreKind = "sqlite"
	StoreMemory StoreKind = "memory"
)

// Config holds all parsed configuration.
type Config struct {
	// Keybinds maps a key string (e.g. "ctrl+c", "j", "G") to an action.
	Keybinds map[string]Action

	// RootPath is prepended to relative chapter links.
	RootPath string

	// IndexDocument is appended to locations ending in "/".
	IndexDocument string

	// ScrollKey is the session key holding the sidebar scroll offset.
	ScrollKey string

	// FoldLevel opens sections shallower than this depth on every mount.
	FoldLevel int

	// AliasIndex treats the site index as the first chapter.
	AliasIndex bool

	Store StoreKind

	// Theme is the name of a palette file, or an absolute path.
	// Empty string means built-in colors.
	Theme string

	LogLevel log.Level
}

// DefaultConfig returns the config with all default keybindings.
func DefaultConfig() *Config {
	c := &Config{
		Keybinds:      make(map[string]Action),
		IndexDocument: "index.html",
		ScrollKey:     "sidebar-scroll",
		AliasIndex:    true,
		Store:         StoreSQLite,
		LogLevel:      log.InfoLevel,
	}

	defaults := map[string]Action{
		"q":      ActionQuit,
		"ctrl+c": ActionQuit,
		"j":      ActionMoveDown,
		"down":   ActionMoveDown,
		"k":      ActionMoveUp,
		"up":     ActionMoveUp,
		"g":      ActionGoTop,
		"G":      ActionGoBottom,
		"ctrl+d": ActionHalfPageDown,
		"ctrl+u": ActionHalfPageUp,
		"l":      ActionExpand,
		"right":  ActionExpand,
		"h":      ActionCollapse,
		"left":   ActionCollapse,
		" ":      ActionToggle,
		"enter":  ActionNavigate,
		"c":      ActionCopyHref,
		"E":      ActionExpandAll,
		"W":      ActionCollapseAll,
		"a":      ActionGoActive,
		"/":      ActionSearch,
		"?":      ActionHelp,
		"esc":    ActionClearFilter,
	}

	for k, v := range defaults {
		c.Keybinds[k] = v
	}

	return c
}

// ConfigPath returns the default config file path.
func ConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "booknav", "config")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "booknav", "config")
}

// Load reads the config file from the default path. If the file doesn't
// exist, it returns the default config with no error.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads a config file from the given path. If the file doesn't
// exist, it returns the default config with no error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip blank lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse "key = value"
		eqIdx := strings.Index(line, "=")
		if eqIdx < 0 {
			return nil, fmt.Errorf("%s:%d: invalid syntax (expected key = value): %s", path, lineNum, line)
		}

		key := strings.TrimSpace(line[:eqIdx])
		value := strings.TrimSpace(line[eqIdx+1:])

		if key == "" {
			return nil, fmt.Errorf("%s:%d: empty key", path, lineNum)
		}

		if err := cfg.set(key, value); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return cfg, nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "keybind":
		return c.parseKeybind(value)

	case "root-path":
		c.RootPath = value

	case "index-document":
		if value == "" {
			return fmt.Errorf("index-document must not be empty")
		}
		c.IndexDocument = value

	case "scroll-key":
		if value == "" {
			return fmt.Errorf("scroll-key must not be empty")
		}
		c.ScrollKey = value

	case "fold-level":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("fold-level must be a non-negative integer, got %q", value)
		}
		c.FoldLevel = n

	case "alias-index":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.AliasIndex = b

	case "store":
		switch StoreKind(value) {
		case StoreSQLite, StoreMemory:
			c.Store = StoreKind(value)
		default:
			return fmt.Errorf("store must be sqlite or memory, got %q", value)
		}

	case "theme":
		c.Theme = value

	case "log-level":
		lvl, err := log.ParseLevel(value)
		if err != nil {
			return fmt.Errorf("log-level: %w", err)
		}
		c.LogLevel = lvl

	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%s must be true or false, got %q", key, value)
}

// parseKeybind parses a keybind value like "ctrl+c=quit" or "q=unbind".
func (c *Config) parseKeybind(value string) error {
	// Find the last '=' to split key from action, since the key itself
	// could be '='.
	eqIdx := strings.LastIndex(value, "=")
	if eqIdx < 0 {
		return fmt.Errorf("invalid keybind syntax (expected key=action): %s", value)
	}

	bindKey := strings.TrimSpace(value[:eqIdx])
	actionStr := strings.TrimSpace(value[eqIdx+1:])

	// Support "space" as a named key for the space character
	if bindKey == "space" {
		bindKey = " "
	}

	if bindKey == "" {
		return fmt.Errorf("empty keybind key")
	}

	// "unbind" removes a binding
	if actionStr == "unbind" {
		delete(c.Keybinds, bindKey)
		return nil
	}

	action := Action(actionStr)
	if !isValidAction(action) {
		return fmt.Errorf("unknown action %q", actionStr)
	}

	c.Keybinds[bindKey] = action
	return nil
}

func isValidAction(a Action) bool {
	switch a {
	case ActionQuit, ActionMoveDown, ActionMoveUp, ActionGoTop, ActionGoBottom,
		ActionHalfPageDown, ActionHalfPageUp, ActionExpand, ActionCollapse,
		ActionToggle, ActionNavigate, ActionCopyHref, ActionExpandAll,
		ActionCollapseAll, ActionGoActive, ActionSearch, ActionHelp,
		ActionClearFilter, ActionSearchConfirm, ActionSearchCancel,
		ActionSearchBackspace, ActionSearchNextMatch, ActionSearchPrevMatch:
		return true
	}
	return false
}

// ActionFor returns the action bound to the given key string, or "" if unbound.
func (c *Config) ActionFor(key string) Action {
	return c.Keybinds[key]
}

// KeysFor returns all keys bound to the given action.
func (c *Config) KeysFor(action Action) []string {
	var keys []string
	for k, a := range c.Keybinds {
		if a == action {
			keys = append(keys, k)
		}
	}
	return keys
}
