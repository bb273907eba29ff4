package formatter

import "strings"

// RenderJSON styles evaluator output for display. One pass over the text:
// object keys, strings, numbers and the bare literals each get their style,
// structural characters get the punctuation style, everything else is copied
// through. Line structure is preserved exactly, so display metrics computed
// on the plain text remain valid for the styled form.
func RenderJSON(text string, noColor bool) string {
	if noColor || text == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + len(text)/2)
	i := 0
	for i < len(text) {
		ch := text[i]
		switch {
		case ch == '"':
			j := endOfString(text, i)
			tok := text[i:j]
			if isKeyPosition(text, j) {
				b.WriteString(keyStyle.Render(tok))
			} else {
				b.WriteString(stringStyle.Render(tok))
			}
			i = j
		case ch == '-' || ch >= '0' && ch <= '9':
			j := i + 1
			for j < len(text) && isNumberByte(text[j]) {
				j++
			}
			b.WriteString(numberStyle.Render(text[i:j]))
			i = j
		case ch >= 'a' && ch <= 'z':
			j := i + 1
			for j < len(text) && text[j] >= 'a' && text[j] <= 'z' {
				j++
			}
			word := text[i:j]
			if word == "true" || word == "false" || word == "null" {
				b.WriteString(literalStyle.Render(word))
			} else {
				b.WriteString(word)
			}
			i = j
		case ch == '{' || ch == '}' || ch == '[' || ch == ']' || ch == ':' || ch == ',':
			b.WriteString(punctStyle.Render(string(ch)))
			i++
		default:
			b.WriteByte(ch)
			i++
		}
	}
	return b.String()
}

// endOfString returns the offset just past the string literal starting at i,
// or the end of text when unterminated.
func endOfString(text string, i int) int {
	j := i + 1
	for j < len(text) {
		switch text[j] {
		case '\\':
			j += 2
			continue
		case '"':
			return j + 1
		}
		j++
	}
	return len(text)
}

// isKeyPosition reports whether the token ending at pos is followed by a
// colon, which makes it an object key.
func isKeyPosition(text string, pos int) bool {
	for pos < len(text) {
		switch text[pos] {
		case ' ', '\t':
			pos++
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}

func isNumberByte(c byte) bool {
	return c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-'
}
