// Package completion turns editor state into ranked suggestions. The engine
// classifies the text around the cursor (boundary frames, trailing path,
// entry context), navigates the document or the last result to the node being
// completed, and assembles field, function, operator, pattern and variable
// candidates filtered by the partial token.
package completion

import (
	"github.com/oakwood-commons/jqx/internal/document"
	"github.com/oakwood-commons/jqx/internal/query"
)

// SuggestionKind indicates the type of suggestion.
type SuggestionKind int

const (
	// SuggestionField is an object field or pseudo-field.
	SuggestionField SuggestionKind = iota
	// SuggestionFunction is a language builtin.
	SuggestionFunction
	// SuggestionOperator is a word operator like "and".
	SuggestionOperator
	// SuggestionPattern is a fill-in syntax template for a keyword form.
	SuggestionPattern
	// SuggestionVariable is a bound $name.
	SuggestionVariable
)

func (k SuggestionKind) String() string {
	switch k {
	case SuggestionFunction:
		return "function"
	case SuggestionOperator:
		return "operator"
	case SuggestionPattern:
		return "pattern"
	case SuggestionVariable:
		return "variable"
	default:
		return "field"
	}
}

// Certainty reports how much the engine trusts its field candidates.
type Certainty int

const (
	// Deterministic means navigation reached a concrete node and nothing
	// upstream erases its shape.
	Deterministic Certainty = iota
	// NonDeterministic means navigation missed or a shape-erasing function
	// precedes the expression, so fields fall back to the document-wide set.
	NonDeterministic
)

// EntryContext classifies completion relative to an entries-producing
// construct, one that turns an object into {key, value} pairs.
type EntryContext int

const (
	// EntryNone means no entries construct applies.
	EntryNone EntryContext = iota
	// EntryDirect means the cursor completes directly on an entry object,
	// whose only fields are key and value.
	EntryDirect
	// EntryOpaque means the cursor sits past a .value access followed by a
	// pipe or nested element context, where the shape is unknowable.
	EntryOpaque
)

// Suggestion is one popup candidate. Text is inserted when chosen and always
// starts with the partial it was filtered by; Display may add decoration.
type Suggestion struct {
	Text        string
	Display     string
	Kind        SuggestionKind
	Type        string // value type annotation for fields, empty otherwise
	Description string
	Score       int
}

// Result is the complete verdict for one keystroke.
type Result struct {
	Suggestions []Suggestion
	Certainty   Certainty
	Entry       EntryContext
	Path        query.Path
	// FromResult reports that navigation ran against the last evaluation
	// result instead of the original document.
	FromResult bool
}

// Options tune the engine. Zero values fall back to the defaults.
type Options struct {
	// MaxSuggestions caps the assembled list.
	MaxSuggestions int
	// ScanAhead is how many array elements (or streamed values) contribute
	// to field unions. 1 reproduces plain first-element navigation.
	ScanAhead int
}

const (
	// DefaultMaxSuggestions is the popup size cap.
	DefaultMaxSuggestions = 10
	// DefaultScanAhead keeps navigation at the first element only.
	DefaultScanAhead = 1
)

// Engine computes suggestions against a document cache. It does no I/O and
// never blocks; it is safe to call on every keystroke.
type Engine struct {
	cache    *document.Cache
	registry *FunctionRegistry
	opts     Options
}

// NewEngine builds an engine over the session's document cache.
func NewEngine(cache *document.Cache, opts Options) *Engine {
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = DefaultMaxSuggestions
	}
	if opts.ScanAhead < 1 {
		opts.ScanAhead = DefaultScanAhead
	}
	return &Engine{cache: cache, registry: Builtins(), opts: opts}
}

// Suggest computes suggestions for text with the cursor at the given byte
// offset. An empty result means the popup has nothing to show, which is a
// designed outcome (inside strings, object key position, nothing typed).
func (e *Engine) Suggest(text string, cursor int) Result {
	sit := e.classify(text, cursor)
	if !sit.active {
		return Result{}
	}
	res := Result{
		Certainty:  sit.certainty,
		Entry:      sit.entry,
		Path:       sit.path,
		FromResult: sit.fromResult,
	}
	res.Suggestions = e.assemble(sit)
	return res
}
