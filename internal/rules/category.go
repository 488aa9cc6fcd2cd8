package rules

import "strings"

// categoryWeights ranks rule categories for priority tie-breaking.
// Severity dominates; within one severity a security finding outranks
// a style nit.
var categoryWeights = map[string]int{
	"security":           80,
	"resource":           70,
	"performance":        60,
	"exception-handling": 50,
	"naming":             40,
	"architecture":       30,
	"style":              20,
	"formatting":         10,
}

// CategoryWeight returns the rank of a category, 0 for anything
// unrecognized. Matching is case-insensitive and tolerates the
// underscore spelling of exception-handling.
func CategoryWeight(category string) int {
	key := strings.ToLower(strings.TrimSpace(category))
	key = strings.ReplaceAll(key, "_", "-")
	return categoryWeights[key]
}
