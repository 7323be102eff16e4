package icons

import (
	"path"
	"strings"
)

// Default icons
const (
	SectionClosed = "\uf07b" // folder
	SectionOpen   = "\uf07c" // folder-open
	PartTitle     = "\uf02e" // bookmark
	Page          = "\uf15c" // file-text
	External      = "\uf08e" // external-link
	Fragment      = "\uf0c1" // link
)

// Page icons by extension of the linked document (Nerd Font)
var extIcons = map[string]string{
	".html": "\uf13b", // html5
	".htm":  "\uf13b",
	".md":   "\ue73e", // markdown
	".pdf":  "\uf1c1", // file-pdf
	".txt":  "\uf15c",
}

// Kind describes what a table of contents entry points at.
type Kind int

const (
	KindPage Kind = iota
	KindHeader
	KindExternal
	KindFragment
)

// KindOf classifies an href as written in the table of contents.
func KindOf(href string) Kind {
	switch {
	case href == "":
		return KindHeader
	case strings.HasPrefix(href, "#"):
		return KindFragment
	case strings.Contains(href, "//"):
		return KindExternal
	}
	return KindPage
}

// GetIcon returns the nerd font icon for an entry. hasChildren and isOpen
// only matter for sections.
func GetIcon(href string, hasChildren, isOpen bool) string {
	if hasChildren {
		if isOpen {
			return SectionOpen
		}
		return SectionClosed
	}

	switch KindOf(href) {
	case KindHeader:
		return PartTitle
	case KindFragment:
		return Fragment
	case KindExternal:
		return External
	}

	// Strip query and fragment before looking at the extension
	clean := href
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}
	if icon, ok := extIcons[strings.ToLower(path.Ext(clean))]; ok {
		return icon
	}
	return Page
}
