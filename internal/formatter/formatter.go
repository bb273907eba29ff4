package formatter

import (
	"encoding/json"
	"fmt"
	"image/color"
	"reflect"
	"strings"

	"charm.land/lipgloss/v2"
)

var (
	defaultKeyColor     = lipgloss.Color("14")
	defaultStringColor  = lipgloss.Color("10")
	defaultNumberColor  = lipgloss.Color("11")
	defaultLiteralColor = lipgloss.Color("13")
	defaultPunctColor   = lipgloss.Color("246")

	keyStyle     lipgloss.Style
	stringStyle  lipgloss.Style
	numberStyle  lipgloss.Style
	literalStyle lipgloss.Style
	punctStyle   lipgloss.Style
)

// JSONColors controls the colors used when rendering evaluator output.
// Empty fields fall back to the defaults (ANSI 256 codes).
type JSONColors struct {
	KeyColor     color.Color
	StringColor  color.Color
	NumberColor  color.Color
	LiteralColor color.Color
	PunctColor   color.Color
}

func applyJSONTheme(jc JSONColors) {
	kc := jc.KeyColor
	sc := jc.StringColor
	nc := jc.NumberColor
	lc := jc.LiteralColor
	pc := jc.PunctColor
	if kc == nil {
		kc = defaultKeyColor
	}
	if sc == nil {
		sc = defaultStringColor
	}
	if nc == nil {
		nc = defaultNumberColor
	}
	if lc == nil {
		lc = defaultLiteralColor
	}
	if pc == nil {
		pc = defaultPunctColor
	}

	keyStyle = lipgloss.NewStyle().Foreground(kc)
	stringStyle = lipgloss.NewStyle().Foreground(sc)
	numberStyle = lipgloss.NewStyle().Foreground(nc)
	literalStyle = lipgloss.NewStyle().Foreground(lc)
	punctStyle = lipgloss.NewStyle().Foreground(pc)
}

// SetJSONTheme overrides the global output styles. Callers can pass
// zero-valued fields to fall back to formatter defaults.
func SetJSONTheme(jc JSONColors) {
	applyJSONTheme(jc)
}

//nolint:gochecknoinits // initialize default theme for package consumers
func init() {
	applyJSONTheme(JSONColors{})
}

// Stringify returns a compact single-line representation for an arbitrary
// decoded value, used in status lines and suggestion annotations.
func Stringify(v any) string {
	if v == nil {
		return "null"
	}
	switch t := v.(type) {
	case string:
		return escapeScalarString(t)
	case bool, int, int64, float64:
		return fmt.Sprint(t)
	case map[string]any, []any:
		// compact JSON keeps composites on one line
		if b, err := json.Marshal(t); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", t)
	default:
		// Reflection covers values that crossed a YAML or TOML decoder and
		// arbitrary types handed in by embedders.
		rv := reflect.ValueOf(v)
		switch rv.Kind() { //nolint:exhaustive // only complex types need JSON marshaling
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
			if b, err := json.Marshal(v); err == nil {
				return string(b)
			}
		}
		return fmt.Sprintf("%v", v)
	}
}

// escapeScalarString flattens control characters so status rows stay
// single-line.
func escapeScalarString(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// Truncate shortens a string to maxWidth display columns, adding an ellipsis
// when content is dropped. Widths are measured, not counted bytewise, so
// wide runes and ANSI sequences stay intact.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return s
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	target := maxWidth - 3
	ellipsis := "..."
	if target < 1 {
		target = maxWidth
		ellipsis = ""
	}
	var b strings.Builder
	width := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if width+rw > target {
			break
		}
		b.WriteRune(r)
		width += rw
	}
	return b.String() + ellipsis
}
