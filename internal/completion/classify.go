package completion

import (
	"strings"

	"github.com/oakwood-commons/jqx/internal/document"
	"github.com/oakwood-commons/jqx/internal/navigator"
	"github.com/oakwood-commons/jqx/internal/query"
)

// situation is everything classification derives from one editor state. It
// lives for a single keystroke.
type situation struct {
	active bool

	text      string
	exprStart int
	expr      string

	path      query.Path
	frame     *query.Frame
	entry     EntryContext
	certainty Certainty

	// fieldCtx reports field-entry position; otherwise the partial filters
	// the static tables.
	fieldCtx bool

	fromResult bool

	// nodes are the navigation candidates field suggestions derive from.
	// Empty means the document-wide fallback set applies.
	nodes []interface{}
}

// classify runs the classification steps in order: locate the expression,
// parse its trailing path, detect entry context, inject implicit iteration,
// pick the navigation source, navigate, and settle certainty.
func (e *Engine) classify(text string, cursor int) situation {
	if cursor > len(text) {
		cursor = len(text)
	}
	sit := situation{text: text}

	b := query.TrackBoundary(text, cursor)
	if b.InString {
		return sit
	}
	start, ok := b.ExprStart(cursor)
	if !ok {
		return sit
	}
	sit.active = true
	sit.exprStart = start
	sit.expr = text[start:cursor]
	sit.frame = b.Innermost()
	sit.path = query.ParsePath(sit.expr)

	sit.entry = entryContext(text, cursor, sit.frame, sit.path)
	switch sit.entry {
	case EntryOpaque:
		// the shape past .value is unknowable: skip navigation, fall back
		sit.fieldCtx = true
		sit.certainty = NonDeterministic
		return sit
	case EntryDirect:
		// an entry object has exactly key and value, nothing to navigate
		sit.fieldCtx = true
		return sit
	}

	sit.fieldCtx = sit.path.AfterDot || len(sit.path.Segments) > 0
	if !sit.fieldCtx {
		return sit
	}

	segs := sit.path.Segments
	if sit.frame != nil && sit.frame.Kind == query.FrameGroup && elementContext[sit.frame.Func] {
		// the argument of an element-context function sees one element,
		// not the array itself
		segs = append([]query.Segment{query.IteratorSeg()}, segs...)
	}

	roots := []interface{}{e.cache.Original()}
	if b.HasPipeBefore(start) {
		if snap := e.cache.Last(); snap != nil {
			sit.fromResult = true
			if snap.Type == document.TypeDestructured && len(snap.Stream) > 0 {
				roots = snap.Stream
			} else {
				roots = []interface{}{snap.Result}
			}
		}
	}

	sit.nodes = navigator.NavigateAll(roots, segs, e.opts.ScanAhead)
	if len(sit.nodes) == 0 || erasedShapeBefore(text, start, b.Frames) {
		sit.certainty = NonDeterministic
		sit.nodes = nil
	}
	return sit
}

// entryContext detects completion relative to an entries-producing
// construct. The nearest family member before the cursor decides:
// from_entries turns entries back into an object, with_entries counts only
// while its call is open, and to_entries holds for the rest of the query.
func entryContext(text string, cursor int, frame *query.Frame, path query.Path) EntryContext {
	word, pos := lastEntriesWord(text, cursor)
	if word == "" {
		return EntryNone
	}
	switch word {
	case "from_entries":
		return EntryNone
	case "with_entries":
		if frame == nil || frame.Kind != query.FrameGroup || frame.Func != "with_entries" {
			return EntryNone
		}
	}

	if vpos := valueAccessAfter(text, pos, cursor); vpos >= 0 {
		if opaqueAfterValue(text, vpos, cursor) {
			return EntryOpaque
		}
		// .value followed by plain path steps navigates normally
		return EntryNone
	}

	// direct child of the construct needs an element context (an iterator
	// or index step, or an enclosing element-context call) and no plain
	// field step below the entry object
	elem := frame != nil && frame.Kind == query.FrameGroup && elementContext[frame.Func]
	for _, s := range path.Segments {
		switch s.Kind {
		case query.KindField, query.KindOptionalField:
			return EntryNone
		case query.KindIterator, query.KindIndex:
			elem = true
		}
	}
	if !elem {
		return EntryNone
	}
	return EntryDirect
}

// lastEntriesWord returns the nearest to_entries/from_entries/with_entries
// before the cursor, outside strings.
func lastEntriesWord(text string, cursor int) (word string, pos int) {
	pos = -1
	query.ForEachWord(text, cursor, func(w string, p int) {
		switch w {
		case "to_entries", "from_entries", "with_entries":
			word, pos = w, p
		}
	})
	return word, pos
}

// valueAccessAfter finds the first ".value" access after from, or -1.
func valueAccessAfter(text string, from, to int) int {
	if to > len(text) {
		to = len(text)
	}
	for i := from; i+6 <= to; i++ {
		if text[i] != '.' || text[i+1:i+6] != "value" {
			continue
		}
		// word boundary on both sides keeps ".values" out
		if i+6 < to && isIdentTail(text[i+6]) {
			continue
		}
		if i > 0 && isIdentTail(text[i-1]) {
			continue
		}
		return i
	}
	return -1
}

// opaqueAfterValue reports whether a pipe or an element-context call opens
// between the .value access and the cursor, which makes the value's shape
// unknowable to static navigation.
func opaqueAfterValue(text string, vpos, cursor int) bool {
	if strings.ContainsRune(text[vpos:cursor], '|') {
		return true
	}
	opaque := false
	query.ForEachWord(text, cursor, func(w string, p int) {
		if p <= vpos || !elementContext[w] {
			return
		}
		if p+len(w) < cursor && text[p+len(w)] == '(' {
			opaque = true
		}
	})
	return opaque
}

// erasedShapeBefore reports whether a shape-erasing function appears before
// the expression start. Callees of still-open frames do not count: inside
// "group_by(" the argument sees a plain element, the erasure happens to the
// function's output.
func erasedShapeBefore(text string, limit int, frames []query.Frame) bool {
	erased := false
	query.ForEachWord(text, limit, func(w string, p int) {
		if !shapeErasers[w] {
			return
		}
		for _, f := range frames {
			if f.Func == w && p+len(w) == f.Pos-1 {
				return
			}
		}
		erased = true
	})
	return erased
}

func isIdentTail(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
