package tree

import "strings"

// Node is one chapter in the table of contents. A node without an Href is
// a pure section header.
type Node struct {
	Title    string
	Href     string // as written by the book build, before root-path resolution
	Number   string // section number such as "5.1.", may be empty
	Children []*Node
	Parent   *Node // non-owning
	Depth    int
	ID       int // pre-order position in the tree
}

// Tree is the immutable navigation tree for one page view.
type Tree struct {
	roots []*Node
	nodes []*Node // pre-order
}

// New links the given roots into a tree, assigning Parent, Depth and ID.
// The roots must not be modified afterwards.
func New(roots []*Node) *Tree {
	t := &Tree{roots: roots}

	type frame struct {
		node   *Node
		parent *Node
		depth  int
	}

	// Explicit stack so arbitrarily deep books do not grow the goroutine stack.
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i]})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		f.node.Parent = f.parent
		f.node.Depth = f.depth
		f.node.ID = len(t.nodes)
		t.nodes = append(t.nodes, f.node)

		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], parent: f.node, depth: f.depth + 1})
		}
	}
	return t
}

// Roots returns the top-level chapters in order.
func (t *Tree) Roots() []*Node { return t.roots }

// Nodes returns every node in document (pre-order) order.
func (t *Tree) Nodes() []*Node { return t.nodes }

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given ID, or nil.
func (t *Tree) Node(id int) *Node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// IsHeader reports whether the node is a section header without a page.
func (n *Node) IsHeader() bool { return n.Href == "" }

// Label returns the display title, prefixed with the section number if any.
func (n *Node) Label() string {
	if n.Number == "" {
		return n.Title
	}
	return n.Number + " " + n.Title
}

// Ancestors returns the strict ancestors of n, nearest first.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// siblings returns the slice n lives in.
func (n *Node) siblings(t *Tree) []*Node {
	if n.Parent == nil {
		return t.roots
	}
	return n.Parent.Children
}

// IsLastChild returns whether this node is the last among its siblings.
func (t *Tree) IsLastChild(n *Node) bool {
	s := n.siblings(t)
	return len(s) > 0 && s[len(s)-1] == n
}

// TreePrefix returns the tree drawing characters for this node
func (t *Tree) TreePrefix(n *Node) string {
	if n.Depth == 0 {
		return ""
	}

	var parts []string
	if t.IsLastChild(n) {
		parts = append(parts, "└─")
	} else {
		parts = append(parts, "├─")
	}

	// Walk up to build indentation, stopping before the root level
	for p := n.Parent; p != nil && p.Depth > 0; p = p.Parent {
		if t.IsLastChild(p) {
			parts = append(parts, "  ")
		} else {
			parts = append(parts, "│ ")
		}
	}

	// Reverse
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "")
}

// Flatten returns the rows to render: every root, and the children of any
// node for which open returns true, recursively, in document order.
func Flatten(t *Tree, open func(*Node) bool) []*Node {
	var result []*Node
	for _, root := range t.roots {
		flatten(root, open, &result)
	}
	return result
}

func flatten(node *Node, open func(*Node) bool, result *[]*Node) {
	*result = append(*result, node)
	if !node.IsLeaf() && open(node) {
		for _, child := range node.Children {
			flatten(child, open, result)
		}
	}
}
