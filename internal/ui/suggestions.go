package ui

import (
	"strings"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/jqx/internal/completion"
)

// refreshSuggestions reruns the engine for the current text and cursor. It
// is synchronous and cheap enough to call on every keystroke.
func (m *Model) refreshSuggestions() {
	if m.engine == nil {
		m.completions = completion.Result{}
		return
	}
	m.completions = m.engine.Suggest(m.input.Value(), m.cursorByte())
	if m.selected >= len(m.completions.Suggestions) {
		m.selected = 0
	}
}

func (m *Model) popupVisible() bool {
	return !m.suppressPopup && !m.histActive && len(m.completions.Suggestions) > 0
}

// popupRows is how many suggestion rows are currently shown.
func (m *Model) popupRows() int {
	n := len(m.completions.Suggestions)
	if n > m.maxRows {
		n = m.maxRows
	}
	return n
}

// cycleSelection moves the highlight through the popup, wrapping at both
// ends. Cycling with a dismissed popup summons it back instead.
func (m *Model) cycleSelection(delta int) {
	if m.suppressPopup {
		m.suppressPopup = false
		m.refreshSuggestions()
		return
	}
	n := m.popupRows()
	if n == 0 {
		return
	}
	m.selected = (m.selected + delta + n) % n
}

// acceptSelected inserts the highlighted suggestion. Suggestion text always
// extends the partial it was filtered by, so insertion replaces exactly the
// partial's bytes before the cursor. Accepting closes the popup; the next
// keystroke reopens it. When the suggestion is already typed out in full the
// call reports false so enter can fall through to running the query.
func (m *Model) acceptSelected() (tea.Cmd, bool) {
	if !m.popupVisible() {
		return nil, false
	}
	sugs := m.completions.Suggestions
	if m.selected < 0 || m.selected >= len(sugs) {
		return nil, false
	}
	chosen := sugs[m.selected]

	text := m.input.Value()
	cursor := m.cursorByte()
	start := cursor - len(m.completions.Path.Partial)
	if start < 0 {
		start = 0
	}
	next := text[:start] + chosen.Text + text[cursor:]
	if next == text {
		return nil, false
	}
	m.input.SetValue(next)
	m.input.SetCursor(utf8.RuneCountInString(next[:start+len(chosen.Text)]))

	m.selected = 0
	m.suppressPopup = true
	m.refreshSuggestions()
	return m.scheduleEval(), true
}

// renderPopup draws the bordered suggestion list under the query line. Rows
// are colored by kind; the selected row carries the prompt marker.
func (m *Model) renderPopup() string {
	rows := m.popupRows()
	if rows == 0 {
		return ""
	}
	inner := m.width - 4
	if inner < 8 {
		inner = 8
	}

	lines := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		s := m.completions.Suggestions[i]
		prefix := "  "
		if i == m.selected {
			prefix = "❯ "
		}
		label := s.Display
		if label == "" {
			label = s.Text
		}
		hint := s.Type
		if hint == "" && s.Kind == completion.SuggestionFunction {
			hint = s.Description
		}

		line := prefix + label
		if hint != "" {
			gap := inner - visibleWidth(line) - visibleWidth(hint) - 1
			if gap < 1 {
				line = cutLine(line, 0, inner)
			} else {
				line += strings.Repeat(" ", gap) + hint
			}
		}
		line = cutLine(line, 0, inner)

		if !m.noColor {
			style := lipgloss.NewStyle().Foreground(m.theme.kindColor(s.Kind))
			if i == m.selected {
				style = lipgloss.NewStyle().Foreground(m.theme.Selected).Bold(true)
			}
			line = style.Render(line)
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

// popupHeight is the rendered height of the popup including its border, or
// zero when hidden. The result pane claims whatever the popup releases.
func (m *Model) popupHeight() int {
	if m.histActive {
		return m.historyOverlayHeight()
	}
	if !m.popupVisible() {
		return 0
	}
	return m.popupRows() + 2
}
