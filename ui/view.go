package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/almonk/booknav/config"
	"github.com/almonk/booknav/icons"
	"github.com/almonk/booknav/tree"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.helpView()
	}

	var b strings.Builder

	viewH := m.viewportHeight()
	end := min(m.scrollOff+viewH, len(m.rows))
	contentWidth := max(m.width, 20)

	if len(m.rows) == 0 {
		msg := "Empty table of contents"
		if m.searching || m.filtered {
			msg = "No matches"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(colorComment).PaddingLeft(1).Render(msg))
	}

	// Render visible tree lines
	for i := m.scrollOff; i < end; i++ {
		if i > m.scrollOff {
			b.WriteString("\n")
		}
		b.WriteString(m.renderNode(m.rows[i], i == m.cursor, contentWidth))
	}

	// Pad remaining lines
	rendered := max(end-m.scrollOff, min(len(m.rows), 1))
	for i := rendered; i < viewH; i++ {
		b.WriteString("\n")
	}

	// Search input (above status bar)
	if m.searching {
		b.WriteString("\n")
		searchLine := searchPromptStyle.Render("/") + searchInputStyle.Render(m.searchQuery+"█")
		if sw := lipgloss.Width(searchLine); sw < m.width {
			searchLine += statusBase.Render(strings.Repeat(" ", m.width-sw))
		}
		b.WriteString(searchLine)
	}

	// Status bar
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

func (m Model) renderStatusBar() string {
	w := max(m.width, 20)

	var modeLabel string
	var modeBg lipgloss.TerminalColor
	if m.filtered || m.searching {
		modeLabel = "FILTER"
		modeBg = colorPurple
	} else {
		modeLabel = "NORMAL"
		modeBg = colorBlue
	}
	modeStyle := lipgloss.NewStyle().
		Background(modeBg).
		Foreground(lipgloss.Color("0")).
		Bold(true)

	var right string
	count := fmt.Sprintf(" %d/%d ", min(m.cursor+1, len(m.rows)), len(m.rows))
	if w >= 60 {
		right = statusHelpStyle.Render(count + " ?:help  enter:open  q:quit ")
	} else {
		right = statusHelpStyle.Render(count)
	}

	left := modeStyle.Render(" " + modeLabel + " ")
	switch {
	case m.flashMsg != "" && m.flashError:
		left += statusErrorStyle.Render(m.flashMsg)
	case m.flashMsg != "":
		left += statusFlashStyle.Render(m.flashMsg)
	default:
		// Location, truncated to fit, then the active chapter title.
		avail := w - lipgloss.Width(left) - lipgloss.Width(right) - 2
		var active string
		if a := m.sb.Active(); a != nil {
			active = " " + a.Title + " "
			if runeLen(active) > avail/2 {
				active = ""
			}
		}
		loc := m.location
		if budget := avail - runeLen(active); runeLen(loc) > budget {
			loc, _ = middleTruncate(loc, max(budget, 4), nil)
		}
		left += statusPathStyle.Render(loc)
		if active != "" {
			left += statusActiveStyle.Render(active)
		}
	}

	padding := max(w-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + statusBase.Render(strings.Repeat(" ", padding)) + right
}

func (m Model) renderNode(node *tree.Node, selected bool, maxWidth int) string {
	var prefix string
	if !m.searching && !m.filtered {
		prefix = m.sb.Tree().TreePrefix(node)
	} else {
		// Search results keep the hierarchy as plain indentation.
		prefix = strings.Repeat("  ", node.Depth)
	}
	expanded := m.sb.IsExpanded(node)
	icon := icons.GetIcon(node.Href, !node.IsLeaf(), expanded)
	matchIndices := m.searchMatchIndices[node]

	// Layout: " " + prefix + icon + " " + label
	fixedWidth := 1 + lipgloss.Width(prefix) + lipgloss.Width(icon) + 1
	available := max(maxWidth-fixedWidth, 4)

	label := node.Label()
	if runeLen(label) > available {
		label, matchIndices = middleTruncate(label, available, matchIndices)
	}

	if selected {
		treeLineSelectedStyle := lipgloss.NewStyle().Foreground(colorFgDim).Background(colorSelection)
		var parts []string
		parts = append(parts, selectedStyle.Render(" "))
		if prefix != "" {
			parts = append(parts, treeLineSelectedStyle.Render(prefix))
		}
		parts = append(parts, selectedStyle.Render(icon+" "))
		parts = append(parts, renderNameHighlighted(label, matchIndices, selectedStyle, matchSelectedStyle))
		if plainLen := lipgloss.Width(strings.Join(parts, "")); plainLen < maxWidth {
			parts = append(parts, selectedStyle.Render(strings.Repeat(" ", maxWidth-plainLen)))
		}
		return strings.Join(parts, "")
	}

	var parts []string
	parts = append(parts, " ")
	if prefix != "" {
		parts = append(parts, treeLineStyle.Render(prefix))
	}
	style := m.nodeStyle(node)
	parts = append(parts, style.Render(icon)+" ")
	if node.Number != "" && len(matchIndices) == 0 && label == node.Label() {
		parts = append(parts, numberStyle.Render(node.Number)+" "+style.Render(node.Title))
	} else {
		parts = append(parts, renderNameHighlighted(label, matchIndices, style, matchHighlightStyle))
	}
	return strings.Join(parts, "")
}

// nodeStyle picks the label style: the active chapter first, then by kind.
func (m Model) nodeStyle(node *tree.Node) lipgloss.Style {
	if m.sb.IsActive(node) {
		return activeStyle
	}
	if !node.IsLeaf() {
		return sectionStyle
	}
	switch icons.KindOf(node.Href) {
	case icons.KindHeader:
		return headerStyle
	case icons.KindExternal:
		return externalStyle
	}
	return linkStyle
}

// renderNameHighlighted renders a label with fuzzy match indices (byte
// offsets) highlighted.
func renderNameHighlighted(name string, matchIndices []int, baseStyle, highlightStyle lipgloss.Style) string {
	if len(matchIndices) == 0 {
		return baseStyle.Render(name)
	}

	matchSet := make(map[int]bool, len(matchIndices))
	for _, idx := range matchIndices {
		matchSet[idx] = true
	}

	var result strings.Builder
	for i, ch := range name {
		if matchSet[i] {
			result.WriteString(highlightStyle.Render(string(ch)))
		} else {
			result.WriteString(baseStyle.Render(string(ch)))
		}
	}
	return result.String()
}

// runeLen returns the number of runes in a string.
func runeLen(s string) int {
	return len([]rune(s))
}

// middleTruncate truncates a string in the middle with "…" if it exceeds
// maxWidth runes, remapping rune-position match indices to the result.
func middleTruncate(s string, maxWidth int, indices []int) (string, []int) {
	runes := []rune(s)
	if len(runes) <= maxWidth {
		return s, indices
	}
	if maxWidth <= 1 {
		return "…", nil
	}

	rightLen := (maxWidth - 1) / 2
	leftLen := maxWidth - 1 - rightLen
	truncated := string(runes[:leftLen]) + "…" + string(runes[len(runes)-rightLen:])

	if len(indices) == 0 {
		return truncated, nil
	}

	rightStart := len(runes) - rightLen
	var remapped []int
	for _, idx := range indices {
		if idx < leftLen {
			remapped = append(remapped, idx)
		} else if idx >= rightStart {
			remapped = append(remapped, leftLen+1+(idx-rightStart))
		}
		// Indices in the truncated middle are dropped
	}
	return truncated, remapped
}

// --- Help ---

// formatKeyName makes key names more readable for the help view.
func formatKeyName(key string) string {
	switch key {
	case "up":
		return "↑"
	case "down":
		return "↓"
	case "left":
		return "←"
	case "right":
		return "→"
	case " ":
		return "Space"
	case "enter":
		return "Enter"
	case "esc":
		return "Esc"
	}
	if strings.HasPrefix(key, "ctrl+") {
		return "Ctrl+" + strings.TrimPrefix(key, "ctrl+")
	}
	return key
}

func (m Model) helpView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("  Keybindings"))
	b.WriteString("\n\n")

	actionOrder := []struct {
		action config.Action
		desc   string
	}{
		{config.ActionMoveDown, "Move down"},
		{config.ActionMoveUp, "Move up"},
		{config.ActionGoTop, "Go to top"},
		{config.ActionGoBottom, "Go to bottom"},
		{config.ActionHalfPageDown, "Half page down"},
		{config.ActionHalfPageUp, "Half page up"},
		{config.ActionNavigate, "Open chapter"},
		{config.ActionToggle, "Fold / unfold section"},
		{config.ActionExpand, "Unfold section"},
		{config.ActionCollapse, "Fold section / go to parent"},
		{config.ActionExpandAll, "Unfold all"},
		{config.ActionCollapseAll, "Fold all"},
		{config.ActionGoActive, "Jump to current chapter"},
		{config.ActionCopyHref, "Copy link to clipboard"},
		{config.ActionSearch, "Filter chapters"},
		{config.ActionClearFilter, "Clear filter"},
		{config.ActionHelp, "Toggle help"},
		{config.ActionQuit, "Quit"},
	}

	keyStyle := lipgloss.NewStyle().
		Foreground(colorPurple).
		Bold(true).
		Width(18).
		PaddingLeft(2)
	descStyle := lipgloss.NewStyle().Foreground(colorFgDim)

	for _, item := range actionOrder {
		keys := m.cfg.KeysFor(item.action)
		if len(keys) == 0 {
			continue
		}
		sort.Strings(keys)
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = formatKeyName(k)
		}
		b.WriteString(keyStyle.Render(strings.Join(names, " / ")))
		b.WriteString(descStyle.Render(item.desc))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(colorComment).PaddingLeft(2).Render("Press ? to return"))
	return b.String()
}
