package sidebar

import (
	"testing"

	"github.com/almonk/booknav/tree"
	"github.com/stretchr/testify/assert"
)

func TestResolveHref(t *testing.T) {
	r := Resolver{RootPath: "../../"}
	tests := []struct {
		href string
		want string
	}{
		{"intro.html", "../../intro.html"},
		{"cont/issues.html", "../../cont/issues.html"},
		{"#anchor", "#anchor"},
		{"https://example.com/x", "https://example.com/x"},
		{"http://example.com", "http://example.com"},
		{"//cdn.example.com/a", "//cdn.example.com/a"},
		{"git+ssh://host/repo", "git+ssh://host/repo"},
		{"mailto:someone@example.com", "../../mailto:someone@example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.ResolveHref(tt.href), tt.href)
	}

	// Missing root path means hrefs are used as-is.
	assert.Equal(t, "intro.html", Resolver{}.ResolveHref("intro.html"))
}

func TestResolveHref_Base(t *testing.T) {
	r := Resolver{RootPath: "../", Base: "https://book.example/guide/ch/a.html"}
	assert.Equal(t, "https://book.example/guide/intro.html", r.ResolveHref("intro.html"))
	assert.Equal(t, "https://book.example/guide/ch/a.html#x", r.ResolveHref("#x"))
	assert.Equal(t, "https://other.example/", r.ResolveHref("https://other.example/"))

	atRoot := Resolver{Base: "https://book.example/guide/index.html", AliasIndex: true}
	assert.Equal(t, "https://book.example/guide/cont/issues.html", atRoot.ResolveHref("cont/issues.html"))
}

func TestResolve_BaseKeepsIndexAlias(t *testing.T) {
	tr := tree.FromItems([]tree.Item{
		{Title: "Intro", Href: "intro.html"},
		{Title: "Other", Href: "other.html"},
	})
	r := Resolver{Base: "https://book.example/", AliasIndex: true}
	resolved := make([]string, tr.Len())
	for _, n := range tr.Nodes() {
		resolved[n.ID] = r.ResolveHref(n.Href)
	}

	assert.Equal(t, "Other", r.Resolve("https://book.example/other.html", tr.Nodes(), resolved).Title)
	assert.Equal(t, "Intro", r.Resolve("https://book.example/", tr.Nodes(), resolved).Title)

	r.RootPath = "../"
	assert.Nil(t, r.Resolve("https://book.example/index.html", tr.Nodes(), resolved))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "https://b/index.html", Resolver{}.Normalize("https://b/"))
	assert.Equal(t, "https://b/home.htm", Resolver{IndexDocument: "home.htm"}.Normalize("https://b/"))
	assert.Equal(t, "https://b/x.html", Resolver{}.Normalize("https://b/x.html"))
}

func TestExpansionSet(t *testing.T) {
	s := ExpansionSet{}
	assert.True(t, s.Flip(3))
	assert.False(t, s.Flip(3))
	s.Add(5)
	s.Add(1)
	assert.Equal(t, []int{1, 5}, s.IDs())
	assert.Equal(t, 2, s.Len())

	c := s.Clone()
	c.Remove(1)
	assert.True(t, s.Has(1), "clone is independent")
}
