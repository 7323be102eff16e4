package theme

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "night.yaml")
	content := `# Test theme
active: "#ff9e64"
section: "#7aa2f7"
gutter: "239"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	th, err := parseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if th.Name != "night" {
		t.Errorf("expected name from file, got %q", th.Name)
	}
	if th.Active != "#ff9e64" {
		t.Errorf("expected active #ff9e64, got %q", th.Active)
	}
	if th.Gutter != "239" {
		t.Errorf("expected gutter 239, got %q", th.Gutter)
	}
	if th.Link != "" {
		t.Errorf("expected unset link, got %q", th.Link)
	}
}

func TestParseFileInvalidColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("active: orange\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := parseFile(path); err == nil {
		t.Fatal("expected error for named color")
	}
}

func TestLoadFromConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	dir := filepath.Join(home, "booknav", "themes")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "paper.yml"), []byte("name: Paper\nsection: \"4\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	th, err := Load("paper")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th.Name != "Paper" || th.Section != "4" {
		t.Errorf("unexpected theme: %+v", th)
	}

	names := List()
	if len(names) != 1 || names[0] != "paper" {
		t.Errorf("List() = %v", names)
	}

	if _, err := Load("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadEmptyName(t *testing.T) {
	th, err := Load("")
	if th != nil || err != nil {
		t.Errorf("expected nil, nil; got %v, %v", th, err)
	}
}
