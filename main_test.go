package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	main "github.com/almonk/booknav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toc = `[
  {"title": "Getting Started", "href": "intro.html"},
  {"title": "Contributing", "children": [
    {"title": "Issues", "href": "cont/issues.html", "number": "1."},
    {"title": "Pull Requests", "href": "cont/prs.html", "number": "2."}
  ]}
]`

func setup(t *testing.T) (*main.Main, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "toc.json")
	require.NoError(t, os.WriteFile(path, []byte(toc), 0o644))

	m := main.NewMain()
	m.ConfigPath = filepath.Join(dir, "no-config")
	m.DBPath = filepath.Join(dir, "session.db")
	return m, path
}

func run(t *testing.T, m *main.Main, args ...string) (string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), args, stdout, stderr)
	return stdout.String(), err
}

func TestMain_Run_HelpShowsCommands(t *testing.T) {
	t.Parallel()

	m, _ := setup(t)
	out, err := run(t, m, "--help")
	require.NoError(t, err)

	for _, cmd := range []string{"browse", "resolve", "navigate"} {
		assert.Contains(t, out, cmd)
	}
	assert.Contains(t, out, "Usage:")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m, _ := setup(t)
	_, err := run(t, m)
	require.Error(t, err)
}

func TestMain_Run_Version(t *testing.T) {
	t.Parallel()

	m, _ := setup(t)
	out, err := run(t, m, "--version")
	require.NoError(t, err)
	assert.Equal(t, "booknav dev\n", out)
}

func TestResolve_PrintsSidebar(t *testing.T) {
	t.Parallel()

	m, path := setup(t)
	out, err := run(t, m, "resolve", path, "--location", "cont/issues.html", "--store", "memory")
	require.NoError(t, err)

	want := strings.Join([]string{
		"scroll: centered on Issues",
		"  Getting Started (intro.html)",
		"- Contributing",
		"  * 1. Issues (cont/issues.html)",
		"    2. Pull Requests (cont/prs.html)",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestResolve_RootPath(t *testing.T) {
	t.Parallel()

	m, path := setup(t)
	out, err := run(t, m, "resolve", path, "-l", "../intro.html", "--root-path", "../", "--store", "memory")
	require.NoError(t, err)

	assert.Contains(t, out, "* Getting Started (../intro.html)")
	assert.Contains(t, out, "+ Contributing")
	assert.NotContains(t, out, "Issues")
}

func TestResolve_NoMatch(t *testing.T) {
	t.Parallel()

	m, path := setup(t)
	out, err := run(t, m, "resolve", path, "-l", "elsewhere.html", "--store", "memory", "--all")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "scroll: none\n"))
	assert.NotContains(t, out, "*")
	assert.Contains(t, out, "1. Issues")
}

func TestNavigate_ThenResolveRestoresOnce(t *testing.T) {
	t.Parallel()

	m, path := setup(t)
	out, err := run(t, m, "navigate", path, "--href", "cont/prs.html", "--offset", "120", "--session", "s1")
	require.NoError(t, err)
	assert.Equal(t, "cont/prs.html\n", out)

	// Another session does not see it.
	out, err = run(t, m, "resolve", path, "-l", "cont/prs.html", "--session", "s2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "scroll: centered on Pull Requests\n"))

	out, err = run(t, m, "resolve", path, "-l", "cont/prs.html", "--session", "s1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "scroll: restored 120\n"))

	out, err = run(t, m, "resolve", path, "-l", "cont/prs.html", "--session", "s1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "scroll: centered on Pull Requests\n"))
}

func TestNavigate_UnknownHref(t *testing.T) {
	t.Parallel()

	m, path := setup(t)
	_, err := run(t, m, "navigate", path, "--href", "missing.html", "--offset", "3", "--session", "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.html")
}

func TestResolve_BadConfig(t *testing.T) {
	t.Parallel()

	m, path := setup(t)
	cfg := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(cfg, []byte("fold-level = many\n"), 0o644))

	_, err := run(t, m, "--config", cfg, "resolve", path, "-l", "intro.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config:1")
}

func TestResolve_FoldLevelFromConfig(t *testing.T) {
	t.Parallel()

	m, path := setup(t)
	cfg := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(cfg, []byte("fold-level = 1\nstore = memory\n"), 0o644))

	out, err := run(t, m, "-c", cfg, "resolve", path, "-l", "intro.html")
	require.NoError(t, err)
	assert.Contains(t, out, "- Contributing")
	assert.Contains(t, out, "1. Issues")
}
