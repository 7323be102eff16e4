// Package theme loads color palettes for the terminal sidebar.
//
// Themes are YAML files:
//
//	name: night
//	active: "#ff9e64"
//	section: "#7aa2f7"
//	link: "#a9b1d6"
//	header: "#bb9af7"
//	external: "#7dcfff"
//	gutter: "#3b4261"
//	selection: "#283457"
//	status: "#1a1b26"
//
// Any color left out keeps the built-in value. Theme search order:
//  1. an absolute path as given
//  2. $XDG_CONFIG_HOME/booknav/themes/<name>.yaml (or .yml)
package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Theme holds the colors used to draw the sidebar. Empty string means
// "not set".
type Theme struct {
	Name string `yaml:"name"`

	Active    string `yaml:"active"`
	Section   string `yaml:"section"`
	Link      string `yaml:"link"`
	Header    string `yaml:"header"`
	External  string `yaml:"external"`
	Gutter    string `yaml:"gutter"`
	Selection string `yaml:"selection"`
	Status    string `yaml:"status"`
}

// ErrNotFound is returned when no theme file matches a name.
var ErrNotFound = errors.New("theme not found")

var colorRe = regexp.MustCompile(`^(#[0-9a-fA-F]{6}|#[0-9a-fA-F]{3}|[0-9]{1,3})$`)

// Dir returns the user theme directory.
func Dir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "booknav", "themes")
}

// Load finds and parses a theme by name. Returns nil, nil for an empty name.
func Load(name string) (*Theme, error) {
	if name == "" {
		return nil, nil
	}

	if filepath.IsAbs(name) {
		return parseFile(name)
	}

	dir := Dir()
	if dir != "" {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return parseFile(path)
			}
		}
	}

	return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
}

// parseFile reads and validates a theme file.
func parseFile(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening theme: %w", err)
	}

	var t Theme
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %s: %w", path, err)
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	for field, value := range t.colors() {
		if value != "" && !colorRe.MatchString(value) {
			return nil, fmt.Errorf("theme %s: %s: invalid color %q", path, field, value)
		}
	}
	return &t, nil
}

func (t *Theme) colors() map[string]string {
	return map[string]string{
		"active":    t.Active,
		"section":   t.Section,
		"link":      t.Link,
		"header":    t.Header,
		"external":  t.External,
		"gutter":    t.Gutter,
		"selection": t.Selection,
		"status":    t.Status,
	}
}

// List returns the names of all themes in the user theme directory.
func List() []string {
	entries, err := os.ReadDir(Dir())
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		switch ext := filepath.Ext(e.Name()); ext {
		case ".yaml", ".yml":
			names = append(names, strings.TrimSuffix(e.Name(), ext))
		}
	}
	return names
}
