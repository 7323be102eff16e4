package ui

import (
	"fmt"
	"unicode/utf8"

	"github.com/almonk/booknav/config"
	"github.com/almonk/booknav/tree"
)

// KeyResult holds the outcome of HandleKey for the caller to act on.
type KeyResult struct {
	Quit      bool
	FlashMsg  string // non-empty = set flash message
	CopyHref  string // non-empty = copy this href to the clipboard
	Navigated string // non-empty = the page changed to this location
}

// HandleKey processes a key event given as a string name (e.g. "j", "esc", "ctrl+f").
// isRune should be true when the key is a printable character (not a control/special key).
func (m *Model) HandleKey(key string, isRune bool) KeyResult {
	if m.showHelp {
		action := m.cfg.ActionFor(key)
		if action == config.ActionHelp || action == config.ActionQuit || key == "esc" {
			m.showHelp = false
		}
		if action == config.ActionQuit {
			return KeyResult{Quit: true}
		}
		return KeyResult{}
	}

	if m.searching {
		return m.handleSearchKey(key, isRune)
	}
	return m.handleNormalKey(key)
}

func (m *Model) handleSearchKey(key string, isRune bool) KeyResult {
	// In search mode, printable characters are always typed into the query
	if isRune {
		m.searchQuery += key
		m.applySearchFilter()
		return KeyResult{}
	}

	action := m.cfg.ActionFor(key)

	switch {
	case key == "esc" || action == config.ActionSearchCancel:
		if m.searchQuery == "" {
			m.clearSearch()
			m.refreshRows()
		} else {
			// First escape confirms the search (same as enter)
			m.confirmSearch()
		}

	case key == "enter" || action == config.ActionSearchConfirm:
		m.confirmSearch()

	case key == "backspace" || action == config.ActionSearchBackspace:
		if len(m.searchQuery) > 0 {
			_, size := utf8.DecodeLastRuneInString(m.searchQuery)
			m.searchQuery = m.searchQuery[:len(m.searchQuery)-size]
			m.applySearchFilter()
		}

	case action == config.ActionQuit:
		return KeyResult{Quit: true}

	case key == "down" || action == config.ActionMoveDown:
		m.moveCursor(1)

	case key == "up" || action == config.ActionMoveUp:
		m.moveCursor(-1)

	case key == "right" || action == config.ActionSearchNextMatch:
		m.jumpToMatch(1)

	case key == "left" || action == config.ActionSearchPrevMatch:
		m.jumpToMatch(-1)
	}

	return KeyResult{}
}

func (m *Model) handleNormalKey(key string) KeyResult {
	action := m.cfg.ActionFor(key)
	node := m.selected()

	switch action {
	case config.ActionClearFilter:
		if m.filtered {
			m.clearSearch()
			m.refreshRows()
		}

	case config.ActionQuit:
		return KeyResult{Quit: true}

	case config.ActionMoveDown:
		m.moveCursor(1)

	case config.ActionMoveUp:
		m.moveCursor(-1)

	case config.ActionGoTop:
		m.cursor = 0
		m.scrollOff = 0

	case config.ActionGoBottom:
		m.cursor = len(m.rows) - 1
		m.clampCursor()
		m.ensureVisible()

	case config.ActionHalfPageDown:
		m.moveCursor(m.viewportHeight() / 2)

	case config.ActionHalfPageUp:
		m.moveCursor(-m.viewportHeight() / 2)

	case config.ActionExpand:
		if m.filtered {
			m.jumpToMatch(1)
		} else if node != nil && m.sb.Expand(node) {
			m.refreshRows()
		}

	case config.ActionCollapse:
		if m.filtered {
			m.jumpToMatch(-1)
		} else if node != nil {
			if m.sb.Collapse(node) {
				m.refreshRows()
			} else if node.Parent != nil {
				if i := m.indexOf(node.Parent); i >= 0 {
					m.cursor = i
					m.ensureVisible()
				}
			}
		}

	case config.ActionToggle:
		if node != nil && !m.filtered && m.sb.Toggle(node) {
			m.refreshRows()
		}

	case config.ActionNavigate:
		if node == nil {
			break
		}
		return m.navigate(node)

	case config.ActionCopyHref:
		if node == nil {
			break
		}
		href := m.sb.Href(node)
		if href == "" {
			return KeyResult{FlashMsg: fmt.Sprintf("%s has no page", node.Title)}
		}
		return KeyResult{CopyHref: href, FlashMsg: fmt.Sprintf("✓ Copied: %s", href)}

	case config.ActionExpandAll:
		if !m.filtered {
			m.sb.ExpandAll()
			m.refreshRows()
		}

	case config.ActionCollapseAll:
		if !m.filtered {
			m.sb.CollapseAll()
			m.refreshRows()
			m.cursor = 0
			m.scrollOff = 0
		}

	case config.ActionGoActive:
		active := m.sb.Active()
		if active == nil {
			return KeyResult{FlashMsg: "No active chapter"}
		}
		if m.filtered {
			m.clearSearch()
		}
		// Reveal it the same way a mount would, without touching other toggles.
		for _, a := range active.Ancestors() {
			m.sb.Expand(a)
		}
		m.refreshRows()
		m.CenterOn(active)

	case config.ActionSearch:
		m.startSearch()

	case config.ActionHelp:
		m.showHelp = !m.showHelp
	}

	return KeyResult{}
}

// navigate follows node's link: the offset is recorded as the page is
// left, and the new page view mounts from scratch. Headers without a page
// toggle instead.
func (m *Model) navigate(n *tree.Node) KeyResult {
	href, ok := m.sb.Navigate(n, m)
	if !ok {
		if m.sb.Toggle(n) {
			m.refreshRows()
		}
		return KeyResult{}
	}
	m.logger.Info("navigate", "from", m.location, "to", href)
	m.location = href
	m.mount()
	return KeyResult{Navigated: href}
}
