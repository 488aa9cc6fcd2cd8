// Package jtext implements the text-level Java helpers the extractor works
// on: comment/string normalization and brace-balanced block extraction.
// Everything here is a plain function over strings; no parsing, no I/O.
package jtext

import (
	"strings"
)

// Strip removes comments and blanks literal bodies so pattern matching sees
// only live code. Block comments collapse to a single space, line comments
// vanish up to the newline, string and char literals are replaced by an
// empty literal of the same quote style.
//
// The scan is deliberately not escape-aware: consecutive quote characters
// pair up by simple counting, so `"a\"b"` closes at the backslashed quote.
// That is the documented accuracy trade-off of the whole tagging layer.
func Strip(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	i := 0
	n := len(text)
	for i < n {
		c := text[i]
		switch {
		case c == '/' && i+1 < n && text[i+1] == '*':
			i += 2
			for i < n {
				if text[i] == '*' && i+1 < n && text[i+1] == '/' {
					i += 2
					break
				}
				i++
			}
			b.WriteByte(' ')

		case c == '/' && i+1 < n && text[i+1] == '/':
			i += 2
			for i < n && text[i] != '\n' {
				i++
			}
			// the newline itself is written by the next iteration

		case c == '"':
			i++
			for i < n && text[i] != '"' {
				i++
			}
			if i < n {
				i++
			}
			b.WriteString(`""`)

		case c == '\'':
			i++
			for i < n && text[i] != '\'' {
				i++
			}
			if i < n {
				i++
			}
			b.WriteString("''")

		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}
