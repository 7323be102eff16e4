package ui

import (
	"github.com/almonk/booknav/tree"
	"github.com/sahilm/fuzzy"
)

// nodeSource implements fuzzy.Source over chapter labels.
type nodeSource []*tree.Node

func (ns nodeSource) String(i int) string { return ns[i].Label() }
func (ns nodeSource) Len() int            { return len(ns) }

// startSearch enters search mode. Expansion state is left alone: results
// are listed separately and the normal rows come back on cancel.
func (m *Model) startSearch() {
	m.searching = true
	m.filtered = false
	m.searchQuery = ""
	m.searchNodes = nil
	m.searchMatchIndices = nil
	m.cursor = 0
	m.scrollOff = 0
}

// confirmSearch leaves input mode but keeps the filtered list.
func (m *Model) confirmSearch() {
	m.searching = false
	m.filtered = m.searchNodes != nil
	if !m.filtered {
		m.rows = m.sb.Rows()
	}
	m.clampCursor()
}

// clearSearch drops every trace of a search. Callers refresh the rows.
func (m *Model) clearSearch() {
	m.searching = false
	m.filtered = false
	m.searchQuery = ""
	m.searchNodes = nil
	m.searchMatchIndices = nil
}

// applySearchFilter runs the fuzzy match and updates rows/cursor.
func (m *Model) applySearchFilter() {
	m.updateSearch()
	if m.searchNodes != nil {
		m.rows = m.searchNodes
	} else {
		m.rows = m.sb.Rows()
	}
	m.cursor = 0
	m.scrollOff = 0
	// Start on the best match rather than its section header.
	if len(m.searchMatchIndices) > 0 {
		if _, ok := m.searchMatchIndices[m.selected()]; !ok {
			m.jumpToMatch(1)
		}
	}
}

// jumpToMatch moves cursor to the next (dir=+1) or previous (dir=-1) fuzzy match.
func (m *Model) jumpToMatch(dir int) {
	if m.searchMatchIndices == nil || len(m.rows) == 0 {
		return
	}
	n := len(m.rows)
	for step := 1; step < n; step++ {
		idx := ((m.cursor+dir*step)%n + n) % n
		if _, ok := m.searchMatchIndices[m.rows[idx]]; ok {
			m.cursor = idx
			m.ensureVisible()
			return
		}
	}
}

// updateSearch filters the whole tree, keeping each match's ancestors so
// results read as a hierarchy.
func (m *Model) updateSearch() {
	if m.searchQuery == "" {
		m.searchNodes = nil
		m.searchMatchIndices = nil
		return
	}

	all := m.sb.Tree().Nodes()
	results := fuzzy.FindFrom(m.searchQuery, nodeSource(all))

	matchMap := make(map[*tree.Node][]int, len(results))
	include := make(map[*tree.Node]bool, len(results))
	for _, r := range results {
		node := all[r.Index]
		matchMap[node] = r.MatchedIndexes
		include[node] = true
		for a := node.Parent; a != nil && !include[a]; a = a.Parent {
			include[a] = true
		}
	}

	// Preserve document order
	filtered := make([]*tree.Node, 0, len(include))
	for _, node := range all {
		if include[node] {
			filtered = append(filtered, node)
		}
	}

	m.searchNodes = filtered
	m.searchMatchIndices = matchMap
}
