package extract

import "strings"

// capSnippet collapses runs of whitespace so evidence stays on one
// line, then truncates to max runes.
func capSnippet(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// appendSnippet adds a cleaned snippet unless it is empty, already
// collected, or the list is full.
func appendSnippet(list []string, raw string, maxLen, limit int) []string {
	if len(list) >= limit {
		return list
	}
	snippet := capSnippet(raw, maxLen)
	if snippet == "" {
		return list
	}
	for _, have := range list {
		if have == snippet {
			return list
		}
	}
	return append(list, snippet)
}
