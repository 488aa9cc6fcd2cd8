package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// The fallback tier estimates the structural metrics straight from
// text. It exists so a file the parser cannot summarize still gets
// size and complexity tags, at reduced confidence. Thresholds mirror
// the builtin metric definitions.
const (
	TagLineCountHigh   = "LINE_COUNT_HIGH"
	TagMethodCountHigh = "METHOD_COUNT_HIGH"
	TagComplexityHigh  = "COMPLEXITY_HIGH"
	TagNestingDeep     = "NESTING_DEEP"

	fallbackLineThreshold       = 300
	fallbackMethodThreshold     = 10
	fallbackComplexityThreshold = 10
	fallbackNestingThreshold    = 4

	confFallbackLines      = 1.0
	confFallbackMethods    = 0.9
	confFallbackComplexity = 0.8
	confFallbackNesting    = 0.8
)

var (
	// Method-signature-shaped lines: a visibility modifier, then a
	// parameter list, then an opening brace. Counts declarations, not
	// calls, because calls are not prefixed by a modifier keyword.
	methodSigRe = regexp.MustCompile(`(?m)^\s*(?:public|private|protected)\s+[^=;{}()]*\([^)]*\)[^;{]*\{`)

	// Decision points for the cyclomatic estimate.
	decisionRe = regexp.MustCompile(`\b(?:if|for|while|case|catch)\b|&&|\|\||\?`)

	// A control header directly before an opening brace. Only braces
	// with such a header deepen the nesting estimate; class bodies,
	// method bodies and initializer blocks do not.
	controlHeadRe = regexp.MustCompile(`\b(?:if|else|for|while|switch|do|try|catch|finally)\b\s*(?:\([^()]*\))?\s*$`)
)

// fallbackTier adds text-estimated tags. It never replaces a tag an
// earlier tier already set: a parser-backed metric outranks a guess.
func fallbackTier(p *Profile, text, normalized string) {
	if lines := lineCount(text); lines >= fallbackLineThreshold {
		addFallback(p, TagLineCountHigh, confFallbackLines,
			fmt.Sprintf("lines=%d >= %d", lines, fallbackLineThreshold))
	}
	if methods := len(methodSigRe.FindAllStringIndex(normalized, -1)); methods >= fallbackMethodThreshold {
		addFallback(p, TagMethodCountHigh, confFallbackMethods,
			fmt.Sprintf("methods~=%d >= %d", methods, fallbackMethodThreshold))
	}
	if complexity := 1 + len(decisionRe.FindAllStringIndex(normalized, -1)); complexity >= fallbackComplexityThreshold {
		addFallback(p, TagComplexityHigh, confFallbackComplexity,
			fmt.Sprintf("complexity~=%d >= %d", complexity, fallbackComplexityThreshold))
	}
	if depth := controlNesting(normalized); depth >= fallbackNestingThreshold {
		addFallback(p, TagNestingDeep, confFallbackNesting,
			fmt.Sprintf("nesting~=%d >= %d", depth, fallbackNestingThreshold))
	}
}

func addFallback(p *Profile, name string, conf float64, evidence string) {
	if p.Has(name) {
		return
	}
	p.Set(name, Provenance{Source: OriginFallback, Confidence: conf, Evidence: []string{evidence}})
}

func lineCount(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

// controlNesting tracks brace depth, counting only braces whose short
// lookbehind window ends in a control header. Plain braces still pair
// on the stack so closers decrement the right opener.
func controlNesting(text string) int {
	const window = 60

	var stack []bool
	depth, maxDepth := 0, 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			start := i - window
			if start < 0 {
				start = 0
			}
			isControl := controlHeadRe.MatchString(text[start:i])
			stack = append(stack, isControl)
			if isControl {
				depth++
				if depth > maxDepth {
					maxDepth = depth
				}
			}
		case '}':
			if len(stack) == 0 {
				continue
			}
			if stack[len(stack)-1] {
				depth--
			}
			stack = stack[:len(stack)-1]
		}
	}
	return maxDepth
}
