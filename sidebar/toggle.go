package sidebar

import "github.com/almonk/booknav/tree"

// IsExpanded reports whether n is showing its children.
func (s *Sidebar) IsExpanded(n *tree.Node) bool {
	return n != nil && s.expanded.Has(n.ID)
}

// Toggle flips n's own expansion and returns true if anything changed.
// Descendants keep their flags, so reopening a section restores its
// subtree as it was.
func (s *Sidebar) Toggle(n *tree.Node) bool {
	if n == nil || n.IsLeaf() {
		return false
	}
	s.expanded.Flip(n.ID)
	return true
}

// Expand opens n. It reports whether the state changed.
func (s *Sidebar) Expand(n *tree.Node) bool {
	if n == nil || n.IsLeaf() || s.expanded.Has(n.ID) {
		return false
	}
	s.expanded.Add(n.ID)
	return true
}

// Collapse closes n. It reports whether the state changed.
func (s *Sidebar) Collapse(n *tree.Node) bool {
	if n == nil || n.IsLeaf() || !s.expanded.Has(n.ID) {
		return false
	}
	s.expanded.Remove(n.ID)
	return true
}

// ExpandAll opens every section.
func (s *Sidebar) ExpandAll() {
	for _, n := range s.tree.Nodes() {
		if !n.IsLeaf() {
			s.expanded.Add(n.ID)
		}
	}
}

// CollapseAll closes every section.
func (s *Sidebar) CollapseAll() {
	clear(s.expanded)
}

// Visible reports whether every strict ancestor of n is expanded.
func (s *Sidebar) Visible(n *tree.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if !s.expanded.Has(p.ID) {
			return false
		}
	}
	return true
}

// Rows returns the visible nodes in document order.
func (s *Sidebar) Rows() []*tree.Node {
	return tree.Flatten(s.tree, s.IsExpanded)
}
