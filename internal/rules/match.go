package rules

import (
	"sort"

	"taglint/internal/diag"
	"taglint/internal/tagexpr"
)

// Options steers a single matching pass.
//
// SkipUntagged applies to rules with an empty condition: when set they
// are counted as skipped, when clear they fire trivially with no
// matched tags. SortByPriority orders violations by severity weight
// descending, then category weight descending, keeping declaration
// order as the stable tiebreak.
type Options struct {
	SkipUntagged   bool
	SortByPriority bool
}

// Violation is one rule that fired against a profile. Expression is
// the condition text that fired, Matched lists the tags it observed,
// in first-visit order.
type Violation struct {
	RuleID     string
	Title      string
	Category   string
	Severity   Severity
	Suggestion string
	Expression string
	Matched    []string
	Priority   int
}

// Outcome is the result of matching one profile against a catalog.
// Unmatched counts rules whose condition evaluated false; Skipped
// counts rules that never reached evaluation (empty condition under
// SkipUntagged, or a condition that does not parse).
type Outcome struct {
	Violations []Violation
	Unmatched  int
	Skipped    int
}

// Matcher evaluates rule conditions through a shared expression
// evaluator so the compiled ASTs are reused across files.
type Matcher struct {
	eval *tagexpr.Evaluator
}

func NewMatcher(ev *tagexpr.Evaluator) *Matcher {
	return &Matcher{eval: ev}
}

// Match runs every rule in the catalog against the tag set. Malformed
// rule content is never an error: invalid conditions are reported and
// counted under Skipped.
func (m *Matcher) Match(tags map[string]bool, cat *Catalog, opts Options, rep diag.Reporter) *Outcome {
	out := &Outcome{}

	for _, rule := range cat.Rules {
		if rule.Condition == "" {
			if opts.SkipUntagged {
				out.Skipped++
				continue
			}
			out.Violations = append(out.Violations, newViolation(rule, nil))
			continue
		}

		res, err := m.eval.Evaluate(rule.Condition, tags)
		if err != nil {
			diag.Warnf(rep, diag.ExprInvalid, "", rule.Condition, "rule %s skipped: %v", rule.ID, err)
			out.Skipped++
			continue
		}
		if !res.Value {
			out.Unmatched++
			continue
		}
		out.Violations = append(out.Violations, newViolation(rule, res.Matched))
	}

	if opts.SortByPriority {
		sort.SliceStable(out.Violations, func(i, j int) bool {
			return out.Violations[i].Priority > out.Violations[j].Priority
		})
	}
	return out
}

func newViolation(rule Rule, matched []string) Violation {
	return Violation{
		RuleID:     rule.ID,
		Title:      rule.Title,
		Category:   rule.Category,
		Severity:   rule.Severity,
		Suggestion: rule.Suggestion,
		Expression: rule.Condition,
		Matched:    matched,
		Priority:   rule.Severity.Weight()*100 + CategoryWeight(rule.Category),
	}
}
