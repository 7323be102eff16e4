package config

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/charmbracelet/log"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ActionFor("q") != ActionQuit {
		t.Errorf("expected q=quit, got %q", cfg.ActionFor("q"))
	}
	if cfg.ActionFor("enter") != ActionNavigate {
		t.Errorf("expected enter=navigate, got %q", cfg.ActionFor("enter"))
	}
	if cfg.ActionFor(" ") != ActionToggle {
		t.Errorf("expected space=toggle, got %q", cfg.ActionFor(" "))
	}
	if cfg.RootPath != "" {
		t.Errorf("expected empty root path, got %q", cfg.RootPath)
	}
	if cfg.IndexDocument != "index.html" || cfg.ScrollKey != "sidebar-scroll" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.AliasIndex {
		t.Error("expected alias-index on by default")
	}
	if cfg.Store != StoreSQLite {
		t.Errorf("expected sqlite store, got %q", cfg.Store)
	}
}

func TestLoadMissing(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config")
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.ActionFor("q") != ActionQuit {
		t.Error("expected defaults when file missing")
	}

	cfg, err = LoadFrom("")
	if err != nil || cfg == nil {
		t.Fatalf("expected defaults for empty path, got %v", err)
	}
}

func TestLoadSettings(t *testing.T) {
	path := writeConfig(t, `# booknav config
root-path = ../../
index-document = home.html
scroll-key = toc-scroll
fold-level = 2
alias-index = false
store = memory
theme = night
log-level = debug
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.RootPath != "../../" {
		t.Errorf("root-path = %q", cfg.RootPath)
	}
	if cfg.IndexDocument != "home.html" {
		t.Errorf("index-document = %q", cfg.IndexDocument)
	}
	if cfg.ScrollKey != "toc-scroll" {
		t.Errorf("scroll-key = %q", cfg.ScrollKey)
	}
	if cfg.FoldLevel != 2 {
		t.Errorf("fold-level = %d", cfg.FoldLevel)
	}
	if cfg.AliasIndex {
		t.Error("expected alias-index=false")
	}
	if cfg.Store != StoreMemory {
		t.Errorf("store = %q", cfg.Store)
	}
	if cfg.Theme != "night" {
		t.Errorf("theme = %q", cfg.Theme)
	}
	if cfg.LogLevel != log.DebugLevel {
		t.Errorf("log-level = %v", cfg.LogLevel)
	}

	// Defaults should still be present since no keybind lines
	if cfg.ActionFor("q") != ActionQuit {
		t.Error("expected defaults preserved when no keybind lines")
	}
}

func TestLoadKeybinds(t *testing.T) {
	path := writeConfig(t, `keybind = o=navigate
keybind = space=expand_all
keybind = ==collapse_all
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ActionFor("o") != ActionNavigate {
		t.Errorf("expected o=navigate, got %q", cfg.ActionFor("o"))
	}
	if cfg.ActionFor(" ") != ActionExpandAll {
		t.Errorf("expected space=expand_all, got %q", cfg.ActionFor(" "))
	}
	if cfg.ActionFor("=") != ActionCollapseAll {
		t.Errorf("expected '='=collapse_all, got %q", cfg.ActionFor("="))
	}
	if cfg.ActionFor("G") != ActionGoBottom {
		t.Error("expected untouched defaults to remain")
	}
}

func TestLoadUnbind(t *testing.T) {
	path := writeConfig(t, `keybind = q=quit
keybind = q=unbind
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ActionFor("q") != "" {
		t.Error("expected q to be unbound")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"unknown action":   "keybind = q=does_not_exist\n",
		"keybind syntax":   "keybind = q\n",
		"empty bind key":   "keybind = =quit\n",
		"invalid syntax":   "this has no equals sign\n",
		"empty key":        "= value\n",
		"unknown key":      "foobar = baz\n",
		"bad fold level":   "fold-level = -1\n",
		"bad bool":         "alias-index = yes\n",
		"bad store":        "store = redis\n",
		"bad log level":    "log-level = loud\n",
		"empty index":      "index-document =\n",
		"empty scroll key": "scroll-key =\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFrom(writeConfig(t, content)); err == nil {
				t.Fatalf("expected error for %q", content)
			}
		})
	}
}

func TestErrorHasLineNumber(t *testing.T) {
	path := writeConfig(t, "# ok\n\nfold-level = x\n")
	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected error")
	}
	want := path + ":3:"
	if got := err.Error(); len(got) < len(want) || got[:len(want)] != want {
		t.Errorf("expected error to start with %q, got %q", want, got)
	}
}

func TestKeysFor(t *testing.T) {
	cfg := DefaultConfig()
	keys := cfg.KeysFor(ActionQuit)
	sort.Strings(keys)

	if len(keys) != 2 || keys[0] != "ctrl+c" || keys[1] != "q" {
		t.Errorf("expected q and ctrl+c bound to quit, got %v", keys)
	}
}

func TestConfigPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigPath(); got != filepath.Join("/tmp/xdg", "booknav", "config") {
		t.Errorf("ConfigPath() = %q", got)
	}
}
