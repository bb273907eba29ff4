package query

import (
	"strconv"
	"strings"
)

// SegmentKind discriminates path segment variants.
type SegmentKind int

const (
	// KindField is a plain field access like .name or .["a key"].
	KindField SegmentKind = iota
	// KindOptionalField is the error-suppressed form .name?.
	KindOptionalField
	// KindIterator is the iterate-all form .[] (or a bare []).
	KindIterator
	// KindIndex is a literal array index like [0] or [-2].
	KindIndex
)

// Segment is one step of a navigation path.
type Segment struct {
	Kind  SegmentKind
	Name  string // field name for KindField / KindOptionalField
	Index int    // array index for KindIndex; negatives count from the end
}

// FieldSeg returns a plain field segment.
func FieldSeg(name string) Segment { return Segment{Kind: KindField, Name: name} }

// OptionalSeg returns an error-suppressed field segment.
func OptionalSeg(name string) Segment { return Segment{Kind: KindOptionalField, Name: name} }

// IteratorSeg returns an iterate-all segment.
func IteratorSeg() Segment { return Segment{Kind: KindIterator} }

// IndexSeg returns a literal index segment.
func IndexSeg(i int) Segment { return Segment{Kind: KindIndex, Index: i} }

// Path is the parsed trailing navigation expression within the text between
// the boundary and the cursor: the complete segments, the identifier still
// being typed, and whether the cursor sits in field-entry position (right
// after a dot, or inside the partial following one).
type Path struct {
	Segments []Segment
	Partial  string
	AfterDot bool
}

// ParsePath scans the expression once, left to right, and keeps only the
// trailing path. Characters that cannot extend a path (whitespace,
// operators, separators, keywords, literals) reset the accumulator, which is
// what makes the parser safe to run against arbitrary partial expressions:
// in ".price > 100 and .qty" only ".qty" survives.
func ParsePath(expr string) Path {
	var (
		segs     []Segment
		partial  string
		afterDot bool
	)
	reset := func() {
		segs = nil
		partial = ""
		afterDot = false
	}
	// flush turns a pending identifier into a completed field segment.
	flush := func(kind SegmentKind) {
		if partial != "" {
			segs = append(segs, Segment{Kind: kind, Name: partial})
			partial = ""
		}
	}

	i := 0
	for i < len(expr) {
		ch := expr[i]
		switch {
		case ch == '.':
			if i+1 < len(expr) && expr[i+1] == '.' {
				// recursive descent has no static shape
				reset()
				i += 2
				continue
			}
			flush(KindField)
			afterDot = true
			i++
		case ch == '?':
			switch {
			case partial != "":
				flush(KindOptionalField)
				afterDot = false
			case len(segs) > 0 && !afterDot:
				// optional form of a bracket segment, same navigation
			default:
				reset()
			}
			i++
		case ch == '[':
			flush(KindField)
			afterDot = false
			seg, next, ok := parseBracket(expr, i)
			if next < 0 {
				// unterminated bracket: nothing useful to complete yet
				return Path{Segments: segs}
			}
			if !ok {
				reset()
				i = next
				continue
			}
			segs = append(segs, seg)
			i = next
		case ch == '"':
			// a string literal is not a path
			j, _ := skipString(expr, i, len(expr))
			reset()
			i = j
		case isIdentStart(ch) || ch == '$':
			j := i + 1
			for j < len(expr) && isIdentByte(expr[j]) {
				j++
			}
			word := expr[i:j]
			// a reserved word ends the path, unless it is still being typed
			// at the cursor, where it stays filterable as a partial
			if !afterDot && isReservedWord(word) && j < len(expr) {
				reset()
				i = j
				continue
			}
			partial = word
			i = j
		case ch >= '0' && ch <= '9':
			// number literal, possibly reached via a leading dot (".5")
			j := i
			for j < len(expr) && (expr[j] >= '0' && expr[j] <= '9' || expr[j] == '.' || expr[j] == 'e' || expr[j] == 'E') {
				j++
			}
			reset()
			i = j
		default:
			// operator, separator or whitespace
			reset()
			i++
		}
	}
	return Path{Segments: segs, Partial: partial, AfterDot: afterDot}
}

// parseBracket parses a bracket segment starting at the '[' at pos. next is
// the offset past the closing bracket, or -1 when unterminated. ok is false
// for bracket contents that are not statically navigable (slices, nested
// expressions).
func parseBracket(expr string, pos int) (seg Segment, next int, ok bool) {
	j := pos + 1
	for j < len(expr) {
		switch expr[j] {
		case '"':
			k, closed := skipString(expr, j, len(expr))
			if !closed {
				return Segment{}, -1, false
			}
			j = k
			continue
		case ']':
			content := strings.TrimSpace(expr[pos+1 : j])
			next = j + 1
			switch {
			case content == "":
				return IteratorSeg(), next, true
			case len(content) >= 2 && content[0] == '"' && content[len(content)-1] == '"':
				return FieldSeg(content[1 : len(content)-1]), next, true
			default:
				if n, err := strconv.Atoi(content); err == nil {
					return IndexSeg(n), next, true
				}
				return Segment{}, next, false
			}
		case '[', '(', '{':
			// nested construct inside brackets is beyond static parsing;
			// skip to the matching close of the outer bracket
			depth := 1
			j++
			for j < len(expr) && depth > 0 {
				switch expr[j] {
				case '[', '(', '{':
					depth++
				case ']', ')', '}':
					depth--
				}
				j++
			}
			if depth > 0 {
				return Segment{}, -1, false
			}
			continue
		}
		j++
	}
	return Segment{}, -1, false
}

// RenderPath reproduces the canonical textual form of segments. Names that
// are not plain identifiers render in bracket-quoted form.
func RenderPath(segs []Segment) string {
	var b strings.Builder
	for i, s := range segs {
		switch s.Kind {
		case KindField, KindOptionalField:
			if isIdentName(s.Name) {
				b.WriteByte('.')
				b.WriteString(s.Name)
			} else {
				if i == 0 {
					b.WriteByte('.')
				}
				b.WriteString(`["`)
				b.WriteString(s.Name)
				b.WriteString(`"]`)
			}
			if s.Kind == KindOptionalField {
				b.WriteByte('?')
			}
		case KindIterator:
			if i == 0 {
				b.WriteByte('.')
			}
			b.WriteString("[]")
		case KindIndex:
			if i == 0 {
				b.WriteByte('.')
			}
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// String renders the full path including the trailing completion state, so
// ParsePath(p.String()) reproduces p for canonical paths.
func (p Path) String() string {
	s := RenderPath(p.Segments)
	if p.AfterDot {
		return s + "." + p.Partial
	}
	if len(p.Segments) == 0 {
		return p.Partial
	}
	return s
}

// isIdentName reports whether name is safe to render in dotted form.
func isIdentName(name string) bool {
	if name == "" || !isIdentStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentByte(name[i]) {
			return false
		}
	}
	return true
}

// reservedWords are jq keywords that terminate a path when they appear
// outside field position.
var reservedWords = map[string]bool{
	"and": true, "or": true, "as": true,
	"if": true, "then": true, "elif": true, "else": true, "end": true,
	"def": true, "reduce": true, "foreach": true,
	"try": true, "catch": true, "label": true,
	"import": true, "include": true,
}

func isReservedWord(w string) bool { return reservedWords[w] }
