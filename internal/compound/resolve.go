// Package compound folds compound tags onto a profile. A compound tag
// is an expression over base tags; when it evaluates true against the
// extracted profile, its name joins the tag set so rules can reference
// it like any other atom.
package compound

import (
	"taglint/internal/diag"
	"taglint/internal/extract"
	"taglint/internal/registry"
	"taglint/internal/tagexpr"
)

// Result records the outcome for one compound definition, whether it
// fired or not. Matched lists the base tags the expression observed.
type Result struct {
	Name       string
	Expression string
	Added      bool
	Matched    []string
}

// Resolve evaluates every definition against the same snapshot of the
// profile, then adds the ones that fired. A compound therefore never
// sees another compound, and resolution order cannot change the
// outcome. Definitions that fail to parse are reported and omitted;
// the loader validates expressions, so that only happens with
// hand-built definitions.
func Resolve(profile *extract.Profile, defs []registry.CompoundDef, ev *tagexpr.Evaluator, rep diag.Reporter) []Result {
	if len(defs) == 0 {
		return nil
	}

	base := profile.TagSet()
	results := make([]Result, 0, len(defs))

	for i := range defs {
		def := &defs[i]
		res, err := ev.Evaluate(def.Expression, base)
		if err != nil {
			diag.Warnf(rep, diag.ExprInvalid, "", def.Expression, "compound %s skipped: %v", def.Name, err)
			continue
		}

		results = append(results, Result{
			Name:       def.Name,
			Expression: def.Expression,
			Added:      res.Value,
			Matched:    res.Matched,
		})
		if res.Value {
			profile.Set(def.Name, extract.Provenance{
				Source:     extract.OriginCompound,
				Confidence: 1.0,
				Evidence:   []string{def.Expression},
			})
		}
	}
	return results
}
