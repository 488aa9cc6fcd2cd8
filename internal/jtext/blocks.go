package jtext

import (
	"regexp"
	"sort"
)

var (
	finallyHeadRe = regexp.MustCompile(`\bfinally\s*\{`)
	loopHeadRe    = regexp.MustCompile(`\b(?:for|while)\s*\(`)
	doHeadRe      = regexp.MustCompile(`\bdo\s*\{`)
)

// Block returns the text between the brace at open and its depth-balanced
// match, exclusive of both braces, together with the index of the closing
// brace. ok is false when open does not point at '{' or the brace never
// closes. Braces inside literals count too; run Strip first when that
// matters.
func Block(text string, open int) (body string, end int, ok bool) {
	if open < 0 || open >= len(text) || text[open] != '{' {
		return "", 0, false
	}
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[open+1 : i], i, true
			}
		}
	}
	return "", 0, false
}

// FinallyBlocks returns the body of every finally block in document order.
// orphans counts finally headers whose block never closes.
func FinallyBlocks(text string) (blocks []string, orphans int) {
	return extractAt(text, finallyAnchors(text))
}

// LoopBlocks returns the body of every for, while and do block in document
// order. Headers not followed by a brace (single-statement loops) are
// ignored; orphans counts headers whose block never closes.
func LoopBlocks(text string) (blocks []string, orphans int) {
	return extractAt(text, loopAnchors(text))
}

// finallyAnchors lists the opening-brace index of each finally block.
func finallyAnchors(text string) []int {
	matches := finallyHeadRe.FindAllStringIndex(text, -1)
	anchors := make([]int, 0, len(matches))
	for _, m := range matches {
		anchors = append(anchors, m[1]-1)
	}
	return anchors
}

// loopAnchors lists the opening-brace index of each loop body. for/while
// need their parenthesized header balanced first; do opens its block
// directly.
func loopAnchors(text string) []int {
	var anchors []int

	for _, m := range loopHeadRe.FindAllStringIndex(text, -1) {
		if brace, ok := braceAfterParens(text, m[1]-1); ok {
			anchors = append(anchors, brace)
		}
	}
	for _, m := range doHeadRe.FindAllStringIndex(text, -1) {
		anchors = append(anchors, m[1]-1)
	}

	sort.Ints(anchors)
	return anchors
}

// braceAfterParens balances the parenthesized header opening at open and
// reports the index of the '{' that immediately follows it, skipping
// whitespace. ok is false for unbalanced headers and single-statement
// bodies.
func braceAfterParens(text string, open int) (int, bool) {
	depth := 0
	i := open
	for ; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 {
			break
		}
	}
	if i >= len(text) {
		return 0, false
	}
	for i++; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return i, true
		default:
			return 0, false
		}
	}
	return 0, false
}

func extractAt(text string, anchors []int) (blocks []string, orphans int) {
	for _, at := range anchors {
		body, _, ok := Block(text, at)
		if !ok {
			orphans++
			continue
		}
		blocks = append(blocks, body)
	}
	return blocks, orphans
}
