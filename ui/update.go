package ui

import (
	"fmt"
	"time"

	"github.com/almonk/booknav/tree"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// flash sets a temporary flash message that auto-clears.
func flash(m *Model, msg string, isError bool) tea.Cmd {
	m.flashMsg = msg
	m.flashError = isError
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearFlashMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case clearFlashMsg:
		m.flashMsg = ""
		m.flashError = false
		return m, nil

	case tocChangedMsg:
		cmd := m.reload()
		if m.watcher != nil {
			return m, tea.Batch(cmd, m.watcher.Wait())
		}
		return m, cmd

	case watchErrMsg:
		cmd := flash(&m, fmt.Sprintf("✗ Watch: %s", msg.err), true)
		if m.watcher != nil {
			return m, tea.Batch(cmd, m.watcher.Wait())
		}
		return m, cmd

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		res := m.HandleKey(msg.String(), msg.Type == tea.KeyRunes)
		return m, m.applyKeyResult(res)
	}

	return m, nil
}

func (m *Model) applyKeyResult(res KeyResult) tea.Cmd {
	switch {
	case res.Quit:
		return tea.Quit
	case res.CopyHref != "":
		if err := clipboard.WriteAll(res.CopyHref); err != nil {
			return flash(m, fmt.Sprintf("✗ Failed to copy: %s", err), true)
		}
		return flash(m, res.FlashMsg, false)
	case res.FlashMsg != "":
		return flash(m, res.FlashMsg, false)
	}
	return nil
}

// reload re-reads the table of contents and starts a new page view at the
// same location, keeping the reader's scroll position.
func (m *Model) reload() tea.Cmd {
	t, err := tree.Load(m.tocPath)
	if err != nil {
		m.logger.Warn("reload", "path", m.tocPath, "err", err)
		return flash(m, fmt.Sprintf("✗ Reload failed: %s", err), true)
	}
	offset := m.scrollOff
	m.sb = m.factory(t)
	if res := m.mount(); !res.Restored {
		m.scrollOff = offset
		m.clampScroll()
	}
	m.logger.Info("reloaded", "path", m.tocPath, "chapters", t.Len())
	return flash(m, "✓ Reloaded", false)
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.moveCursor(-3)
	case msg.Button == tea.MouseButtonWheelDown:
		m.moveCursor(3)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		res := m.Click(msg.Y, time.Now())
		return m, m.applyKeyResult(res)
	}
	return m, nil
}

// Click handles a press on screen row y. A second press on the same row
// within 400ms follows the link, or toggles a header without one.
func (m *Model) Click(y int, now time.Time) KeyResult {
	if m.showHelp {
		m.showHelp = false
		return KeyResult{}
	}
	row := y + m.scrollOff
	if row < 0 || row >= len(m.rows) {
		return KeyResult{}
	}

	doubleClick := row == m.lastClickRow && now.Sub(m.lastClickTime) < 400*time.Millisecond
	m.lastClickTime = now
	m.lastClickRow = row

	m.cursor = row
	if !doubleClick {
		m.ensureVisible()
		return KeyResult{}
	}
	m.lastClickTime = time.Time{}
	return m.navigate(m.rows[row])
}
