package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Tree {
	return FromItems([]Item{
		{Title: "Getting Started", Href: "intro.html"},
		{Title: "Contributing", Children: []Item{
			{Title: "Issues", Href: "cont/issues.html"},
			{Title: "Pull Requests", Href: "cont/prs.html", Children: []Item{
				{Title: "Review", Href: "cont/review.html"},
			}},
		}},
	})
}

func TestNewAssignsStructure(t *testing.T) {
	tr := sampleTree()
	nodes := tr.Nodes()
	require.Len(t, nodes, 5)

	titles := make([]string, 0, len(nodes))
	for i, n := range nodes {
		assert.Equal(t, i, n.ID)
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"Getting Started", "Contributing", "Issues", "Pull Requests", "Review"}, titles)

	review := tr.Node(4)
	assert.Equal(t, 2, review.Depth)
	assert.Equal(t, "Pull Requests", review.Parent.Title)
	assert.Equal(t, "Contributing", review.Parent.Parent.Title)
	assert.Nil(t, tr.Node(0).Parent)
	assert.Nil(t, tr.Node(99))
	assert.Nil(t, tr.Node(-1))
}

func TestAncestors(t *testing.T) {
	tr := sampleTree()
	var titles []string
	for _, a := range tr.Node(4).Ancestors() {
		titles = append(titles, a.Title)
	}
	assert.Equal(t, []string{"Pull Requests", "Contributing"}, titles)
	assert.Empty(t, tr.Node(0).Ancestors())
}

func TestDeepTree(t *testing.T) {
	// Far deeper than any real book.
	const depth = 10000
	root := &Node{Title: "0"}
	cur := root
	for i := 1; i < depth; i++ {
		child := &Node{Title: "n"}
		cur.Children = []*Node{child}
		cur = child
	}
	tr := New([]*Node{root})
	require.Equal(t, depth, tr.Len())
	assert.Equal(t, depth-1, cur.Depth)
	assert.Len(t, cur.Ancestors(), depth-1)
}

func TestFlatten(t *testing.T) {
	tr := sampleTree()

	closed := Flatten(tr, func(*Node) bool { return false })
	assert.Len(t, closed, 2)

	open := Flatten(tr, func(*Node) bool { return true })
	assert.Len(t, open, 5)

	// Opening a grandchild does nothing while its parent is closed.
	onlyPRs := Flatten(tr, func(n *Node) bool { return n.Title == "Pull Requests" })
	assert.Len(t, onlyPRs, 2)
}

func TestTreePrefix(t *testing.T) {
	tr := sampleTree()
	assert.Equal(t, "", tr.TreePrefix(tr.Node(0)))
	assert.Equal(t, "├─", tr.TreePrefix(tr.Node(2)))
	assert.Equal(t, "└─", tr.TreePrefix(tr.Node(3)))
	assert.Equal(t, "  └─", tr.TreePrefix(tr.Node(4)))
}

func TestLabelAndKinds(t *testing.T) {
	n := &Node{Title: "Issues", Number: "1.", Href: "cont/issues.html"}
	assert.Equal(t, "1. Issues", n.Label())
	assert.True(t, n.IsLeaf())
	assert.False(t, n.IsHeader())

	h := &Node{Title: "Contributing", Children: []*Node{n}}
	assert.Equal(t, "Contributing", h.Label())
	assert.False(t, h.IsLeaf())
	assert.True(t, h.IsHeader())
}
