package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// View stacks the query line, the popup slot, the result pane and the status
// bar. All mutation happens in Update; View only reads.
func (m *Model) View() tea.View {
	var b strings.Builder

	b.WriteString(cutLine(m.input.View(), 0, m.resultWidth()))
	b.WriteString("\n")

	switch {
	case m.histActive:
		b.WriteString(m.renderHistoryOverlay())
		b.WriteString("\n")
	case m.popupVisible():
		b.WriteString(m.renderPopup())
		b.WriteString("\n")
	}

	b.WriteString(m.renderResult())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	v := tea.NewView(b.String())
	v.AltScreen = true
	// Needed for shift+tab detection.
	v.KeyboardEnhancements.ReportEventTypes = true
	return v
}
