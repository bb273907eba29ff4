package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// openHistorySearch switches the popup slot to incremental history search.
// Matches start as the full history, newest first.
func (m *Model) openHistorySearch() {
	m.histActive = true
	m.histInput.SetValue("")
	m.histInput.SetCursor(0)
	m.histInput.Focus()
	m.input.Blur()
	m.histMatches = m.history.Search("")
	m.histSelected = 0
}

// closeHistorySearch returns focus to the query line. When accept is true
// the highlighted match replaces the query and is scheduled to run.
func (m *Model) closeHistorySearch(accept bool) tea.Cmd {
	m.histActive = false
	m.histInput.Blur()
	m.input.Focus()
	if accept && m.histSelected < len(m.histMatches) {
		return m.setQuery(m.histMatches[m.histSelected])
	}
	return nil
}

func (m *Model) updateHistorySearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc", "ctrl+g":
		return m, m.closeHistorySearch(false)

	case "enter":
		return m, m.closeHistorySearch(true)

	case "up", "ctrl+p":
		m.moveHistSelection(-1)
		return m, nil

	case "down", "ctrl+n", "tab", "ctrl+r":
		m.moveHistSelection(1)
		return m, nil
	}

	prev := m.histInput.Value()
	var cmd tea.Cmd
	m.histInput, cmd = m.histInput.Update(msg)
	if m.histInput.Value() != prev {
		m.histMatches = m.history.Search(m.histInput.Value())
		m.histSelected = 0
	}
	return m, cmd
}

func (m *Model) moveHistSelection(delta int) {
	n := m.histRows()
	if n == 0 {
		return
	}
	m.histSelected = (m.histSelected + delta + n) % n
}

// histRows is how many matches are shown, capped like the popup.
func (m *Model) histRows() int {
	n := len(m.histMatches)
	if n > m.maxRows {
		n = m.maxRows
	}
	return n
}

// historyOverlayHeight is the rendered height of the search box.
func (m *Model) historyOverlayHeight() int {
	return m.histRows() + 3
}

// renderHistoryOverlay draws the search input and the ranked matches in the
// popup slot.
func (m *Model) renderHistoryOverlay() string {
	inner := m.width - 4
	if inner < 8 {
		inner = 8
	}

	lines := make([]string, 0, m.histRows()+1)
	lines = append(lines, cutLine(m.histInput.View(), 0, inner))
	for i := 0; i < m.histRows(); i++ {
		prefix := "  "
		if i == m.histSelected {
			prefix = "❯ "
		}
		line := cutLine(prefix+m.histMatches[i], 0, inner)
		if !m.noColor && i == m.histSelected {
			line = lipgloss.NewStyle().Foreground(m.theme.Selected).Bold(true).Render(line)
		}
		lines = append(lines, padToWidth(line, inner))
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		PaddingLeft(1).
		PaddingRight(1)
	if !m.noColor {
		boxStyle = boxStyle.BorderForeground(m.theme.Border)
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
