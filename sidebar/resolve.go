package sidebar

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/almonk/booknav/tree"
)

// DefaultIndexDocument is appended to locations that end in a slash.
const DefaultIndexDocument = "index.html"

// absoluteHref matches "scheme://..." and protocol-relative "//..." links.
var absoluteHref = regexp.MustCompile(`^(?:[a-z+]+:)?//`)

// Resolver maps the current location to the chapter it displays.
type Resolver struct {
	// RootPath is prepended to relative hrefs. Empty means hrefs are
	// already resolved.
	RootPath string
	// IndexDocument defaults to DefaultIndexDocument.
	IndexDocument string
	// AliasIndex makes the site index page select the first chapter when
	// nothing matches exactly and RootPath is empty.
	AliasIndex bool
	// Base, when set, makes resolved hrefs absolute against it the way a
	// browser resolves a link's href property.
	Base string
}

func (r Resolver) indexDocument() string {
	if r.IndexDocument == "" {
		return DefaultIndexDocument
	}
	return r.IndexDocument
}

// ResolveHref returns the href as the page will see it. Fragment links and
// absolute URLs are left alone.
func (r Resolver) ResolveHref(href string) string {
	if href == "" {
		return ""
	}
	if !strings.HasPrefix(href, "#") && !absoluteHref.MatchString(href) {
		href = r.RootPath + href
	}
	if r.Base == "" {
		return href
	}
	base, err := url.Parse(r.Base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// Normalize appends the index document to directory locations.
func (r Resolver) Normalize(location string) string {
	if strings.HasSuffix(location, "/") {
		return location + r.indexDocument()
	}
	return location
}

// Resolve returns the first node, in document order, whose resolved href
// equals the normalized location. resolved is indexed by node ID. It
// returns nil when nothing matches.
func (r Resolver) Resolve(location string, nodes []*tree.Node, resolved []string) *tree.Node {
	current := r.Normalize(location)
	var first *tree.Node
	for _, n := range nodes {
		href := resolved[n.ID]
		if href == "" {
			continue
		}
		if first == nil {
			first = n
		}
		if href == current {
			return n
		}
	}

	if r.AliasIndex && r.RootPath == "" && first != nil &&
		strings.HasSuffix(current, "/"+r.indexDocument()) {
		return first
	}
	return nil
}
