package query

import "sort"

// ScanVariables collects the names bound by "... as $x" constructs anywhere
// in the query, including destructuring patterns like "as [$a, {b: $c}]".
// Names are returned sorted and deduplicated, with the leading '$' kept.
func ScanVariables(text string) []string {
	seen := map[string]bool{}

	i := 0
	for i < len(text) {
		ch := text[i]
		if ch == '"' {
			j, _ := skipString(text, i, len(text))
			i = j
			continue
		}
		if !isIdentStart(ch) {
			i++
			continue
		}
		j := i + 1
		for j < len(text) && isIdentByte(text[j]) {
			j++
		}
		if text[i:j] != "as" {
			i = j
			continue
		}
		// collect every $name inside the pattern region that follows
		i = scanPattern(text, j, seen)
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// scanPattern walks the destructuring pattern after an "as" keyword,
// recording bound names, and returns the offset where the pattern ends. The
// pattern region stops at '|', '(' or any token that cannot belong to a
// pattern.
func scanPattern(text string, start int, seen map[string]bool) int {
	i := start
	for i < len(text) {
		ch := text[i]
		switch {
		case ch == '$':
			j := i + 1
			for j < len(text) && isIdentByte(text[j]) {
				j++
			}
			if j > i+1 {
				seen[text[i:j]] = true
			}
			i = j
		case ch == '"':
			j, closed := skipString(text, i, len(text))
			if !closed {
				return len(text)
			}
			i = j
		case ch == ' ' || ch == '\t' || ch == '\n',
			ch == '[' || ch == ']' || ch == '{' || ch == '}',
			ch == ',' || ch == ':' || ch == '?' || ch == '/':
			// structure characters of a pattern, '?//' alternatives included
			i++
		case isIdentStart(ch):
			// bare object key inside {key: $v}
			j := i + 1
			for j < len(text) && isIdentByte(text[j]) {
				j++
			}
			i = j
		default:
			return i
		}
	}
	return i
}
