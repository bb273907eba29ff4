// Package query contains the cursor-anchored scanners that turn partial jq
// text into structured editing context: the boundary tracker, the path
// parser, and the variable scanner. Everything here is single-pass and
// tolerant of incomplete input; unrecognized syntax degrades to an empty
// result rather than an error.
package query

// FrameKind discriminates the bracket constructs that can be open at the
// cursor.
type FrameKind int

const (
	// FrameGroup is an unclosed parenthesis, usually a function call.
	FrameGroup FrameKind = iota
	// FrameArray is an unclosed bracket: an array builder or an index
	// access, both treated the same for boundary purposes.
	FrameArray
	// FrameObject is an unclosed brace building an object literal.
	FrameObject
)

// Frame is one unclosed construct on the boundary stack.
type Frame struct {
	Kind FrameKind
	// Func is the identifier immediately preceding an open paren, so
	// "map(" yields "map". Empty for bare parens and non-group frames.
	Func string
	// Pos is the offset just past the opener.
	Pos int

	// lastSep is the offset just past the most recent same-depth ',' (or
	// ';' inside a group), -1 when none has been seen.
	lastSep int
	// lastColon is the offset just past the most recent same-depth ':',
	// -1 when none. Only meaningful for object frames.
	lastColon int
}

// Boundary is the result of scanning query text up to the cursor: the stack
// of unclosed constructs plus enough separator bookkeeping to locate the
// start of the expression being typed.
type Boundary struct {
	Frames []Frame

	// InString reports that the cursor sits inside an unterminated string
	// literal, where no suggestions apply.
	InString bool

	// rootSep is the offset just past the last top-level '|' or ';'.
	rootSep int
	// pipes holds the offsets of every '|' outside string literals,
	// regardless of depth, in scan order.
	pipes []int
}

// Innermost returns the deepest unclosed frame, or nil when the cursor is at
// the top level.
func (b *Boundary) Innermost() *Frame {
	if len(b.Frames) == 0 {
		return nil
	}
	return &b.Frames[len(b.Frames)-1]
}

// HasPipeBefore reports whether a pipe occurs anywhere before pos. Used to
// pick the navigation source: a piped expression no longer sees the original
// document shape.
func (b *Boundary) HasPipeBefore(pos int) bool {
	for _, p := range b.pipes {
		if p < pos {
			return true
		}
	}
	return false
}

// TrackBoundary scans text up to cursor once and returns the boundary state.
// String literals are skipped (with backslash escapes), '#' comments run to
// end of line, and unbalanced closers are ignored rather than failing.
func TrackBoundary(text string, cursor int) Boundary {
	if cursor > len(text) {
		cursor = len(text)
	}
	b := Boundary{rootSep: 0}

	i := 0
	for i < cursor {
		ch := text[i]
		switch ch {
		case '"':
			j, closed := skipString(text, i, cursor)
			if !closed {
				b.InString = true
				return b
			}
			i = j
			continue
		case '#':
			for i < cursor && text[i] != '\n' {
				i++
			}
			continue
		case '(':
			b.Frames = append(b.Frames, Frame{
				Kind:      FrameGroup,
				Func:      calleeBefore(text, i),
				Pos:       i + 1,
				lastSep:   -1,
				lastColon: -1,
			})
		case '[':
			b.Frames = append(b.Frames, Frame{
				Kind:      FrameArray,
				Pos:       i + 1,
				lastSep:   -1,
				lastColon: -1,
			})
		case '{':
			b.Frames = append(b.Frames, Frame{
				Kind:      FrameObject,
				Pos:       i + 1,
				lastSep:   -1,
				lastColon: -1,
			})
		case ')', ']', '}':
			if len(b.Frames) > 0 {
				b.Frames = b.Frames[:len(b.Frames)-1]
			}
		case '|':
			b.pipes = append(b.pipes, i)
			if len(b.Frames) == 0 {
				b.rootSep = i + 1
			}
		case ';':
			if f := b.Innermost(); f != nil {
				f.lastSep = i + 1
			} else {
				b.rootSep = i + 1
			}
		case ',':
			if f := b.Innermost(); f != nil {
				f.lastSep = i + 1
			}
		case ':':
			if f := b.Innermost(); f != nil && f.Kind == FrameObject {
				f.lastColon = i + 1
			}
		}
		i++
	}
	return b
}

// ExprStart locates where the expression under the cursor begins, following
// the innermost open frame:
//
//	no frame        after the last top-level '|' or ';'
//	group           just after '('
//	array builder   after '[' or the last same-depth ','
//	object builder  after the last ':' when in value position
//
// ok is false when no path expression applies at the cursor (object key
// position, or the cursor inside a string literal).
func (b *Boundary) ExprStart(cursor int) (start int, ok bool) {
	if b.InString {
		return cursor, false
	}
	f := b.Innermost()
	if f == nil {
		return b.rootSep, true
	}
	switch f.Kind {
	case FrameGroup:
		// arguments separated by ';' restart the expression
		if f.lastSep > f.Pos {
			return f.lastSep, true
		}
		return f.Pos, true
	case FrameArray:
		if f.lastSep > f.Pos {
			return f.lastSep, true
		}
		return f.Pos, true
	case FrameObject:
		// value position only when a colon follows the last comma
		if f.lastColon > f.Pos && f.lastColon > f.lastSep {
			return f.lastColon, true
		}
		return cursor, false
	}
	return cursor, false
}

// skipString advances past a double-quoted literal starting at i, honoring
// backslash escapes. closed is false when the literal runs past limit.
func skipString(text string, i, limit int) (next int, closed bool) {
	j := i + 1
	for j < limit {
		switch text[j] {
		case '\\':
			j += 2
			continue
		case '"':
			return j + 1, true
		}
		j++
	}
	return limit, false
}

// calleeBefore extracts the identifier directly preceding an open paren at
// pos, if any.
func calleeBefore(text string, pos int) string {
	end := pos
	start := pos
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	name := text[start:end]
	if name == "" || !isIdentStart(name[0]) {
		return ""
	}
	return name
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
