package report

import (
	"fmt"
	"io"
	"strings"

	"taglint/internal/driver"
	"taglint/internal/rules"
)

// Short writes one line per violation:
//
//	SEV      RULE-ID path title [tags]
//
// Files come in discovery order and violations in priority order, so
// the output is diff-stable.
func Short(w io.Writer, run *driver.RunResult, opts Options) error {
	for i := range run.Files {
		res := &run.Files[i]
		if res.Outcome == nil {
			continue
		}
		path := displayPath(run.Root, res.Path, opts.FullPath)
		for _, v := range res.Outcome.Violations {
			if _, err := fmt.Fprintln(w, shortLine(path, v)); err != nil {
				return err
			}
		}
	}
	return nil
}

func shortLine(path string, v rules.Violation) string {
	line := fmt.Sprintf("%-8s %s %s %s", v.Severity.String(), v.RuleID, path, v.Title)
	if len(v.Matched) > 0 {
		line += " [" + strings.Join(v.Matched, " ") + "]"
	}
	return line
}

// FormatGolden renders the short lines plus the summary into one
// string for golden comparisons in tests.
func FormatGolden(run *driver.RunResult) string {
	var b strings.Builder
	_ = Short(&b, run, Options{})
	b.WriteString(summaryLine(run))
	b.WriteString("\n")
	return b.String()
}
