package query

// ForEachWord calls fn for every identifier word in text[:limit] that sits
// outside string literals and comments, along with its byte offset. Words
// led by '.' or '$' are field accesses or variables, not calls, and are
// skipped. Classifiers use this to spot function names in already-typed
// text.
func ForEachWord(text string, limit int, fn func(word string, pos int)) {
	if limit > len(text) {
		limit = len(text)
	}
	i := 0
	for i < limit {
		ch := text[i]
		switch {
		case ch == '"':
			j, closed := skipString(text, i, limit)
			if !closed {
				return
			}
			i = j
		case ch == '#':
			for i < limit && text[i] != '\n' {
				i++
			}
		case isIdentStart(ch):
			j := i + 1
			for j < limit && isIdentByte(text[j]) {
				j++
			}
			if i == 0 || (text[i-1] != '.' && text[i-1] != '$') {
				fn(text[i:j], i)
			}
			i = j
		default:
			i++
		}
	}
}
