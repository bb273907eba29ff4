package document

import "github.com/mattn/go-runewidth"

// Metrics captures the display geometry of evaluator output: total line
// count, the widest line, and a per-line width table for horizontal scroll
// clamping. Widths are terminal display widths, not byte or rune counts.
type Metrics struct {
	LineCount  int
	MaxWidth   int
	LineWidths []int
}

// ComputeMetrics measures text in a single pass. Empty text has zero lines
// and zero width; a trailing newline does not open a final empty line.
func ComputeMetrics(text string) Metrics {
	if text == "" {
		return Metrics{}
	}
	var m Metrics
	start := 0
	for i := 0; i <= len(text); i++ {
		if i < len(text) && text[i] != '\n' {
			continue
		}
		if i == len(text) && i == start {
			break
		}
		w := runewidth.StringWidth(text[start:i])
		m.LineWidths = append(m.LineWidths, w)
		m.LineCount++
		if w > m.MaxWidth {
			m.MaxWidth = w
		}
		start = i + 1
	}
	return m
}
