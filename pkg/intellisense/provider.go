// Package intellisense exposes the jq suggestion engine to host editors and
// tools that bring their own evaluation and UI.
//
// A Completer is bound to one document and computes ranked, context-aware
// suggestions for query text and a cursor position:
//
//	c, err := intellisense.NewCompleter(myData, intellisense.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res := c.Suggest(".users | map(.", 14)
//	for _, s := range res.Suggestions {
//		fmt.Printf("%s  %s\n", s.Display, s.Type)
//	}
//
// Every suggestion's Text extends the partial token in res.Path.Partial, so
// a host popup inserts a chosen suggestion by replacing the partial's bytes
// before the cursor. See ExampleIntegration for the full arithmetic.
//
// Hosts that also want evaluation should use pkg/core instead, whose engine
// feeds results back into pipe-aware suggestions.
package intellisense

import (
	"github.com/oakwood-commons/jqx/internal/completion"
	"github.com/oakwood-commons/jqx/internal/document"
	"github.com/oakwood-commons/jqx/pkg/loader"
)

// Suggestion is one completion candidate.
type Suggestion = completion.Suggestion

// SuggestionKind indicates the type of suggestion.
type SuggestionKind = completion.SuggestionKind

// Suggestion kinds
const (
	SuggestionField    = completion.SuggestionField
	SuggestionFunction = completion.SuggestionFunction
	SuggestionOperator = completion.SuggestionOperator
	SuggestionPattern  = completion.SuggestionPattern
	SuggestionVariable = completion.SuggestionVariable
)

// Result is the complete suggestion verdict for one editor state.
type Result = completion.Result

// Certainty reports how much the engine trusts its field candidates.
type Certainty = completion.Certainty

// Certainty levels
const (
	Deterministic    = completion.Deterministic
	NonDeterministic = completion.NonDeterministic
)

// FunctionMetadata describes one jq builtin.
type FunctionMetadata = completion.FunctionMetadata

// FunctionRegistry indexes builtin metadata by name and category.
type FunctionRegistry = completion.FunctionRegistry

// Options tune a Completer. Zero values use the defaults.
type Options struct {
	// MaxSuggestions caps the suggestion list (default 10).
	MaxSuggestions int
	// ScanAhead widens array navigation to the first N elements when
	// collecting field suggestions (default 1).
	ScanAhead int
}

// Completer computes suggestions for jq query text against one document.
// It does no I/O and never blocks; it is safe to call on every keystroke.
type Completer struct {
	engine *completion.Engine
}

// NewCompleter builds a completer over an already parsed Go value. Strings
// and byte slices go through format detection (JSON, NDJSON, YAML, TOML).
func NewCompleter(value any, opts Options) (*Completer, error) {
	doc, err := loader.LoadObject(value)
	if err != nil {
		return nil, err
	}
	return NewCompleterFromDocument(doc, opts), nil
}

// NewCompleterFromDocument builds a completer over a loaded document.
func NewCompleterFromDocument(doc loader.Document, opts Options) *Completer {
	cache := document.NewCache(doc.Root, doc.Text)
	return &Completer{
		engine: completion.NewEngine(cache, completion.Options{
			MaxSuggestions: opts.MaxSuggestions,
			ScanAhead:      opts.ScanAhead,
		}),
	}
}

// Suggest computes suggestions for text with the cursor at the given byte
// offset. An empty result means the host should show nothing: the cursor is
// inside a string, at object key position, or no candidate survives the
// partial filter.
//
// Expressions after a pipe are completed against the original document here;
// result-aware pipe completion needs evaluation and lives in pkg/core.
func (c *Completer) Suggest(text string, cursor int) Result {
	return c.engine.Suggest(text, cursor)
}

// Functions returns the builtin function registry backing function
// suggestions: signatures, descriptions, categories and search.
func Functions() *FunctionRegistry {
	return completion.Builtins()
}
