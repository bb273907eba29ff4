package ui

import (
	"regexp"
	"strings"

	runewidth "github.com/mattn/go-runewidth"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes escape sequences, leaving the printable text.
func stripANSI(s string) string {
	return ansiRegexp.ReplaceAllString(s, "")
}

// visibleWidth is the display width of a string with ANSI sequences removed.
func visibleWidth(s string) int {
	return runewidth.StringWidth(stripANSI(s))
}

// padToWidth right-pads a styled string with spaces up to the target
// display width.
func padToWidth(s string, target int) string {
	visible := visibleWidth(s)
	if visible >= target {
		return s
	}
	return s + strings.Repeat(" ", target-visible)
}

// cutLine returns the window of a single styled line that starts skip display
// columns in and spans at most width columns. Escape sequences are always
// carried through, so styling that opened before the window stays active and
// resets after it still apply. A wide rune straddling either edge is dropped.
func cutLine(s string, skip, width int) string {
	if width <= 0 {
		return ""
	}

	var out strings.Builder
	col := 0
	inEscape := false
	hasEscape := strings.ContainsRune(s, 0x1b)

	for _, r := range s {
		if inEscape {
			out.WriteRune(r)
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		if r == 0x1b {
			inEscape = true
			out.WriteRune(r)
			continue
		}
		w := runewidth.RuneWidth(r)
		// Printable runes are emitted only when they fit entirely inside
		// the [skip, skip+width) column window.
		if col >= skip && col+w <= skip+width {
			out.WriteRune(r)
		}
		col += w
		// Plain lines can stop at the window edge; styled lines keep going
		// so trailing resets are preserved.
		if col >= skip+width && !hasEscape {
			break
		}
	}
	return out.String()
}
