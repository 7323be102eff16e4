//go:build js && wasm

// Command wasm runs the sidebar inside a book page. It renders the table
// of contents into the page's scrollbox, marks the current chapter, and
// keeps the scroll offset in sessionStorage across page loads.
//
// Exports:
//
//	booknavMount(toc, location, rootPath[, selector]) -> active id or -1
//	booknavToggle(id) -> expanded
//	booknavClick(id) -> href, or null for a header
//	booknavRows() -> JSON array of visible rows
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall/js"

	"github.com/almonk/booknav/sidebar"
	"github.com/almonk/booknav/tree"
	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
)

const defaultSelector = "mdbook-sidebar-scrollbox"

// ── sessionStorage ──

type sessionStore struct{ storage js.Value }

// newSessionStore returns nil when the page has no usable sessionStorage,
// which disables scroll persistence.
func newSessionStore() (store sidebar.Store) {
	defer func() {
		if recover() != nil {
			store = nil
		}
	}()
	v := js.Global().Get("sessionStorage")
	if v.IsUndefined() || v.IsNull() {
		return nil
	}
	return sessionStore{storage: v}
}

func (s sessionStore) Put(key, value string) (err error) {
	defer catchJS(&err)
	s.storage.Call("setItem", key, value)
	return nil
}

func (s sessionStore) Take(key string) (value string, ok bool, err error) {
	defer catchJS(&err)
	item := s.storage.Call("getItem", key)
	s.storage.Call("removeItem", key)
	if item.IsNull() || item.IsUndefined() {
		return "", false, nil
	}
	return item.String(), true, nil
}

// catchJS turns a thrown JavaScript exception into an error.
func catchJS(err *error) {
	if r := recover(); r != nil {
		if jsErr, ok := r.(js.Error); ok {
			*err = jsErr
			return
		}
		panic(r)
	}
}

// ── DOM viewport ──

// domViewport scrolls the sidebar element. Requests are held until the
// rows have been rendered, since neither an offset nor a row element
// means anything before that.
type domViewport struct {
	el js.Value

	top    int
	hasTop bool
	center *tree.Node
}

func (v *domViewport) ScrollTop() int { return v.el.Get("scrollTop").Int() }

func (v *domViewport) SetScrollTop(offset int) {
	v.top, v.hasTop = offset, true
	v.center = nil
}

func (v *domViewport) CenterOn(n *tree.Node) {
	v.center = n
	v.hasTop = false
}

func (v *domViewport) apply() {
	switch {
	case v.hasTop:
		v.el.Set("scrollTop", v.top)
	case v.center != nil:
		row := v.el.Call("querySelector", fmt.Sprintf(`[data-booknav-id="%d"]`, v.center.ID))
		if !row.IsNull() {
			opts := js.Global().Get("Object").New()
			opts.Set("block", "center")
			row.Call("scrollIntoView", opts)
		}
	}
	v.hasTop = false
	v.center = nil
}

// ── app ──

type row struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Number   string `json:"number,omitempty"`
	Href     string `json:"href,omitempty"`
	Depth    int    `json:"depth"`
	Leaf     bool   `json:"leaf"`
	Expanded bool   `json:"expanded"`
	Active   bool   `json:"active"`
}

type app struct {
	sb      *sidebar.Sidebar
	vp      *domViewport
	onClick js.Func
}

var current *app

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "booknav"})

func decodeTOC(toc string) (*tree.Tree, error) {
	format := tree.FormatJSON
	if strings.HasPrefix(strings.TrimSpace(toc), "<") {
		format = tree.FormatHTML
	}
	return tree.Decode(strings.NewReader(toc), format)
}

func mount(toc, location, rootPath, selector string) (int, error) {
	t, err := decodeTOC(toc)
	if err != nil {
		return -1, err
	}
	el := js.Global().Get("document").Call("querySelector", selector)
	if el.IsNull() {
		return -1, fmt.Errorf("no element matches %q", selector)
	}

	if current != nil {
		current.vp.el.Call("removeEventListener", "click", current.onClick)
		current.onClick.Release()
	}
	a := &app{
		sb: sidebar.New(t, newSessionStore(),
			sidebar.WithRootPath(rootPath),
			sidebar.WithBase(location),
			sidebar.WithLogger(logger),
		),
		vp: &domViewport{el: el},
	}
	a.onClick = js.FuncOf(a.handleClick)
	el.Call("addEventListener", "click", a.onClick)
	current = a

	res := a.sb.Mount(location, a.vp)
	a.render()
	if res.Active == nil {
		return -1, nil
	}
	return res.Active.ID, nil
}

// handleClick records the offset for links inside the sidebar and flips
// sections for toggle anchors.
func (a *app) handleClick(_ js.Value, args []js.Value) any {
	ev := args[0]
	target := ev.Get("target")
	if target.IsNull() || target.Get("closest").IsUndefined() {
		return nil
	}
	item := target.Call("closest", "[data-booknav-id]")
	if item.IsNull() {
		return nil
	}
	id, err := strconv.Atoi(item.Call("getAttribute", "data-booknav-id").String())
	if err != nil {
		return nil
	}
	n := a.sb.Tree().Node(id)

	if !target.Call("closest", "a.toggle").IsNull() {
		ev.Call("preventDefault")
		a.toggle(n)
		return nil
	}
	if !target.Call("closest", "a[href]").IsNull() {
		// The browser follows the link itself.
		a.sb.Navigate(n, a.vp)
	}
	return nil
}

func (a *app) toggle(n *tree.Node) bool {
	if a.sb.Toggle(n) {
		top := a.vp.ScrollTop()
		a.render()
		a.vp.el.Set("scrollTop", top)
	}
	return a.sb.IsExpanded(n)
}

func (a *app) rows() []row {
	visible := a.sb.Rows()
	out := make([]row, 0, len(visible))
	for _, n := range visible {
		out = append(out, row{
			ID:       n.ID,
			Title:    n.Title,
			Number:   n.Number,
			Href:     a.sb.Href(n),
			Depth:    n.Depth,
			Leaf:     n.IsLeaf(),
			Expanded: a.sb.IsExpanded(n),
			Active:   a.sb.IsActive(n),
		})
	}
	return out
}

// render replaces the element's content with the visible rows, in the
// markup the book's stylesheet expects.
func (a *app) render() {
	doc := js.Global().Get("document")
	ol := doc.Call("createElement", "ol")
	ol.Set("className", "chapter")

	for _, r := range a.rows() {
		li := doc.Call("createElement", "li")
		li.Call("setAttribute", "data-booknav-id", strconv.Itoa(r.ID))
		li.Get("style").Set("paddingLeft", fmt.Sprintf("%dem", r.Depth))

		class := "chapter-item"
		if r.Href == "" && !r.Leaf {
			class = "part-title"
		}
		if r.Expanded {
			class += " expanded"
		}
		li.Set("className", class)

		label := doc.Call("createElement", "span")
		if r.Href != "" {
			label = doc.Call("createElement", "a")
			label.Call("setAttribute", "href", r.Href)
			if r.Active {
				label.Set("className", "active")
			}
		}
		if r.Number != "" {
			strong := doc.Call("createElement", "strong")
			strong.Set("textContent", r.Number)
			label.Call("append", strong, " ")
		}
		label.Call("append", r.Title)
		li.Call("append", label)

		if !r.Leaf {
			toggle := doc.Call("createElement", "a")
			toggle.Set("className", "toggle")
			toggle.Set("textContent", "❱")
			li.Call("append", toggle)
		}
		ol.Call("append", li)
	}

	a.vp.el.Call("replaceChildren", ol)
	a.vp.apply()
}

// ── JS bridge ──

func booknavMount(_ js.Value, args []js.Value) any {
	if len(args) < 3 {
		logger.Error("booknavMount: want toc, location, rootPath")
		return -1
	}
	selector := defaultSelector
	if len(args) > 3 && args[3].Type() == js.TypeString {
		selector = args[3].String()
	}
	id, err := mount(args[0].String(), args[1].String(), args[2].String(), selector)
	if err != nil {
		logger.Error("mount", "err", err)
		return -1
	}
	return id
}

func lookup(args []js.Value) *tree.Node {
	if current == nil || len(args) < 1 || args[0].Type() != js.TypeNumber {
		return nil
	}
	return current.sb.Tree().Node(args[0].Int())
}

func booknavToggle(_ js.Value, args []js.Value) any {
	n := lookup(args)
	if n == nil {
		return false
	}
	return current.toggle(n)
}

func booknavClick(_ js.Value, args []js.Value) any {
	n := lookup(args)
	if n == nil {
		return nil
	}
	href, ok := current.sb.Navigate(n, current.vp)
	if !ok {
		current.toggle(n)
		return nil
	}
	return href
}

func booknavRows(_ js.Value, _ []js.Value) any {
	if current == nil {
		return "[]"
	}
	b, err := json.Marshal(current.rows())
	if err != nil {
		logger.Error("rows", "err", err)
		return "[]"
	}
	return string(b)
}

func main() {
	js.Global().Set("booknavMount", js.FuncOf(booknavMount))
	js.Global().Set("booknavToggle", js.FuncOf(booknavToggle))
	js.Global().Set("booknavClick", js.FuncOf(booknavClick))
	js.Global().Set("booknavRows", js.FuncOf(booknavRows))

	// Keep alive
	select {}
}
