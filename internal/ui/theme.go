package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/jqx/internal/completion"
)

// Theme defines the colors used across the editor. Host apps can supply
// their own palette through Options.
type Theme struct {
	Prompt        color.Color // query line prompt
	Border        color.Color // popup border
	Selected      color.Color // selected suggestion row
	FieldColor    color.Color // field suggestions
	FunctionColor color.Color // builtin function suggestions
	OperatorColor color.Color // operator suggestions
	PatternColor  color.Color // keyword pattern suggestions
	VariableColor color.Color // $variable suggestions
	TypeHint      color.Color // value type annotations in the popup
	StatusColor   color.Color // normal status bar text
	StatusError   color.Color // diagnostic status bar text
	HintColor     color.Color // key hints and secondary text
	DimColor      color.Color // stale result pane text
}

// DefaultTheme returns the standard dark palette.
func DefaultTheme() Theme {
	return Theme{
		Prompt:        lipgloss.Color("81"),  // cyan prompt
		Border:        lipgloss.Color("238"), // subtle border
		Selected:      lipgloss.Color("10"),  // bright green selection
		FieldColor:    lipgloss.Color("81"),  // cyan fields
		FunctionColor: lipgloss.Color("214"), // amber functions
		OperatorColor: lipgloss.Color("245"), // gray operators
		PatternColor:  lipgloss.Color("176"), // violet keyword forms
		VariableColor: lipgloss.Color("114"), // mint variables
		TypeHint:      lipgloss.Color("244"), // muted type annotations
		StatusColor:   lipgloss.Color("81"),  // cyan status
		StatusError:   lipgloss.Color("203"), // softer red for diagnostics
		HintColor:     lipgloss.Color("244"), // muted hints
		DimColor:      lipgloss.Color("240"), // dimmed stale output
	}
}

// kindColor maps a suggestion kind to its popup color.
func (t Theme) kindColor(kind completion.SuggestionKind) color.Color {
	switch kind {
	case completion.SuggestionField:
		return t.FieldColor
	case completion.SuggestionFunction:
		return t.FunctionColor
	case completion.SuggestionOperator:
		return t.OperatorColor
	case completion.SuggestionPattern:
		return t.PatternColor
	case completion.SuggestionVariable:
		return t.VariableColor
	default:
		return t.FieldColor
	}
}
