package sidebar

import (
	"maps"
	"slices"

	"github.com/almonk/booknav/tree"
)

// ExpansionSet holds the IDs of the nodes currently showing their children.
type ExpansionSet map[int]struct{}

// Has reports whether id is expanded.
func (s ExpansionSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Add marks id expanded.
func (s ExpansionSet) Add(id int) { s[id] = struct{}{} }

// Remove marks id collapsed.
func (s ExpansionSet) Remove(id int) { delete(s, id) }

// Flip toggles id and returns its new state.
func (s ExpansionSet) Flip(id int) bool {
	if s.Has(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

// Len returns the number of expanded nodes.
func (s ExpansionSet) Len() int { return len(s) }

// IDs returns the members in ascending order.
func (s ExpansionSet) IDs() []int {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns an independent copy.
func (s ExpansionSet) Clone() ExpansionSet {
	return maps.Clone(s)
}

// Propagate expands the active node and each of its ancestors. It only
// ever adds, so manual toggles elsewhere survive and repeated calls are
// no-ops.
func Propagate(s ExpansionSet, active *tree.Node) {
	for n := active; n != nil; n = n.Parent {
		s.Add(n.ID)
	}
}

// foldLevel returns the initial set for a fresh mount: every node shallower
// than level starts open.
func foldLevel(t *tree.Tree, level int) ExpansionSet {
	s := make(ExpansionSet)
	if level <= 0 {
		return s
	}
	for _, n := range t.Nodes() {
		if n.Depth < level && !n.IsLeaf() {
			s.Add(n.ID)
		}
	}
	return s
}
