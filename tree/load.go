package tree

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format identifies how a serialized table of contents is encoded.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
	// FormatScript is mdBook's generated toc.js, which embeds the HTML list
	// as a string literal.
	FormatScript Format = "js"
)

// ErrUnknownFormat is returned when no decoder matches a file.
var ErrUnknownFormat = errors.New("unknown table of contents format")

// Item is the serialized form of a chapter as written by the book build.
type Item struct {
	Title    string `json:"title" yaml:"title"`
	Href     string `json:"href,omitempty" yaml:"href,omitempty"`
	Number   string `json:"number,omitempty" yaml:"number,omitempty"`
	Children []Item `json:"children,omitempty" yaml:"children,omitempty"`
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".js":
		return FormatScript, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// Load reads and decodes a table of contents file.
func Load(path string) (*Tree, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table of contents: %w", err)
	}
	defer f.Close()

	t, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Decode parses a serialized table of contents. Empty input yields an
// empty tree.
func Decode(r io.Reader, format Format) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading table of contents: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return New(nil), nil
	}

	switch format {
	case FormatJSON:
		var items []Item
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
		return FromItems(items), nil

	case FormatYAML:
		var items []Item
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
		return FromItems(items), nil

	case FormatHTML:
		return parseHTML(string(data))

	case FormatScript:
		html, err := extractScriptHTML(string(data))
		if err != nil {
			return nil, err
		}
		return parseHTML(html)
	}
	return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
}

// FromItems builds a tree from serialized items.
func FromItems(items []Item) *Tree {
	return New(nodesFromItems(items))
}

func nodesFromItems(items []Item) []*Node {
	if len(items) == 0 {
		return nil
	}
	nodes := make([]*Node, 0, len(items))
	for _, it := range items {
		nodes = append(nodes, &Node{
			Title:    it.Title,
			Href:     it.Href,
			Number:   it.Number,
			Children: nodesFromItems(it.Children),
		})
	}
	return nodes
}

// Items converts the tree back to its serialized form.
func (t *Tree) Items() []Item {
	return itemsFromNodes(t.roots)
}

func itemsFromNodes(nodes []*Node) []Item {
	if len(nodes) == 0 {
		return nil
	}
	items := make([]Item, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, Item{
			Title:    n.Title,
			Href:     n.Href,
			Number:   n.Number,
			Children: itemsFromNodes(n.Children),
		})
	}
	return items
}

// MarshalJSON encodes the tree in the same shape Decode reads.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Items())
}
