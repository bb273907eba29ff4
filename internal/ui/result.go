package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// resultWidth is the pane's usable display width.
func (m *Model) resultWidth() int {
	if m.width < 1 {
		return 1
	}
	return m.width
}

// resultHeight is however much the input line, the popup and the status bar
// leave over.
func (m *Model) resultHeight() int {
	h := m.height - 2 - m.popupHeight()
	if h < 1 {
		h = 1
	}
	return h
}

// paneWindow returns the visible slice of the snapshot's rendered lines,
// re-splitting only when a new snapshot arrives.
func (m *Model) paneWindow() []string {
	snap := m.cache.Last()
	if snap == nil {
		return nil
	}
	if snap.Seq != m.paneSeq || m.paneLines == nil {
		if snap.Rendered == "" {
			m.paneLines = []string{}
		} else {
			m.paneLines = strings.Split(snap.Rendered, "\n")
		}
		m.paneSeq = snap.Seq
	}

	top := m.scrollY
	if top > len(m.paneLines) {
		top = len(m.paneLines)
	}
	bottom := top + m.resultHeight()
	if bottom > len(m.paneLines) {
		bottom = len(m.paneLines)
	}
	return m.paneLines[top:bottom]
}

// renderResult draws the pane. Lines are cut to the horizontal window with
// styling preserved; while a diagnostic is active the stale snapshot is
// dimmed so outdated output is not mistaken for the current query's result.
func (m *Model) renderResult() string {
	window := m.paneWindow()
	height := m.resultHeight()
	width := m.resultWidth()

	if m.cache.Last() == nil {
		lines := make([]string, height)
		if height > 0 {
			msg := "evaluating ..."
			if !m.evaluating {
				msg = "no result"
			}
			if !m.noColor {
				msg = lipgloss.NewStyle().Foreground(m.theme.HintColor).Render(msg)
			}
			lines[0] = msg
		}
		return strings.Join(lines, "\n")
	}

	dim := m.dimmed()
	dimStyle := lipgloss.NewStyle().Foreground(m.theme.DimColor)

	out := make([]string, height)
	for i := 0; i < height; i++ {
		if i >= len(window) {
			out[i] = ""
			continue
		}
		line := cutLine(window[i], m.scrollX, width)
		if dim {
			line = stripANSI(line)
			if !m.noColor {
				line = dimStyle.Render(line)
			}
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}
