package ui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/jqx/internal/completion"
)

const statusHints = "tab cycle · enter accept/run · ctrl+r history · ctrl+c quit"

// renderStatus draws the single status line: diagnostics on the left, the
// backend and snapshot geometry on the right.
func (m *Model) renderStatus() string {
	width := m.resultWidth()

	left, isError := m.statusLeft()
	right := m.statusRight()

	gap := width - visibleWidth(left) - visibleWidth(right)
	if gap < 1 {
		left = cutLine(left, 0, width-visibleWidth(right)-1)
		gap = width - visibleWidth(left) - visibleWidth(right)
		if gap < 0 {
			gap = 0
		}
	}
	line := left + strings.Repeat(" ", gap) + right
	if m.noColor {
		return line
	}

	color := m.theme.StatusColor
	if isError {
		color = m.theme.StatusError
	}
	leftStyled := lipgloss.NewStyle().Foreground(color).Render(left)
	rightStyled := lipgloss.NewStyle().Foreground(m.theme.HintColor).Render(right)
	return leftStyled + strings.Repeat(" ", gap) + rightStyled
}

// statusLeft picks the message: diagnostic, infrastructure error, fallback
// marker, or the key hints.
func (m *Model) statusLeft() (string, bool) {
	switch {
	case m.diag != nil:
		if m.diag.Line > 0 {
			return fmt.Sprintf("✗ %s (line %d, col %d)", m.diag.Message, m.diag.Line, m.diag.Column), true
		}
		return "✗ " + m.diag.Message, true
	case m.errMsg != "":
		return "✗ " + m.errMsg, true
	case m.histActive:
		return "history search · enter accept · esc cancel", false
	case m.popupVisible() && m.completions.Certainty == completion.NonDeterministic:
		return "~ approximate (document-wide fields)", false
	default:
		return statusHints, false
	}
}

// statusRight summarizes the visible snapshot.
func (m *Model) statusRight() string {
	var parts []string
	if m.evaluating {
		parts = append(parts, "…")
	}
	if m.backend != "" {
		parts = append(parts, m.backend)
	}
	if snap := m.cache.Last(); snap != nil {
		parts = append(parts, snap.Type.String())
		parts = append(parts, fmt.Sprintf("%d lines", snap.Metrics.LineCount))
		if m.scrollY > 0 || m.scrollX > 0 {
			parts = append(parts, fmt.Sprintf("@%d,%d", m.scrollY, m.scrollX))
		}
		if m.elapsed > 0 {
			parts = append(parts, m.elapsed.Round(100*time.Microsecond).String())
		}
	}
	return strings.Join(parts, " · ")
}
