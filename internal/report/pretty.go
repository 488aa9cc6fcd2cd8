package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"taglint/internal/driver"
	"taglint/internal/rules"
)

var (
	criticalColor = color.New(color.FgRed, color.Bold)
	highColor     = color.New(color.FgRed)
	mediumColor   = color.New(color.FgYellow)
	lowColor      = color.New(color.FgCyan)
	headerColor   = color.New(color.Bold)
	dimColor      = color.New(color.Faint)
)

func severityLabel(sev rules.Severity, colored bool) string {
	label := fmt.Sprintf("%-8s", sev.String())
	if !colored {
		return label
	}
	switch sev {
	case rules.SevCritical:
		return criticalColor.Sprint(label)
	case rules.SevHigh:
		return highColor.Sprint(label)
	case rules.SevMedium:
		return mediumColor.Sprint(label)
	default:
		return lowColor.Sprint(label)
	}
}

// Pretty renders the human-facing view: a block per file with
// violations, then a one-line run summary.
func Pretty(w io.Writer, run *driver.RunResult, opts Options) error {
	for i := range run.Files {
		if err := prettyFile(w, run, &run.Files[i], opts); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, summaryLine(run))
	return err
}

func prettyFile(w io.Writer, run *driver.RunResult, res *driver.FileResult, opts Options) error {
	if res.Outcome == nil || len(res.Outcome.Violations) == 0 {
		return nil
	}

	header := displayPath(run.Root, res.Path, opts.FullPath)
	if opts.Color {
		header = headerColor.Sprint(header)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	for _, v := range res.Outcome.Violations {
		if _, err := fmt.Fprintf(w, "  %s %s  %s\n", severityLabel(v.Severity, opts.Color), v.RuleID, v.Title); err != nil {
			return err
		}
		if opts.ShowTags && len(v.Matched) > 0 {
			line := "           tags: " + strings.Join(v.Matched, ", ")
			if opts.Color {
				line = dimColor.Sprint(line)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if opts.ShowSuggestions && v.Suggestion != "" {
			line := "           hint: " + v.Suggestion
			if opts.Color {
				line = dimColor.Sprint(line)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// summaryLine condenses the run: file and violation counts broken down
// by severity, plus skip and cache figures when they are non-zero.
func summaryLine(run *driver.RunResult) string {
	bySev := map[rules.Severity]int{}
	skipped := 0
	for i := range run.Files {
		out := run.Files[i].Outcome
		if out == nil {
			continue
		}
		for _, v := range out.Violations {
			bySev[v.Severity]++
		}
		skipped += out.Skipped
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d files, %d violations", run.Stats.Files, run.Stats.Violations)
	if run.Stats.Violations > 0 {
		fmt.Fprintf(&b, " (%d critical, %d high, %d medium, %d low)",
			bySev[rules.SevCritical], bySev[rules.SevHigh], bySev[rules.SevMedium], bySev[rules.SevLow])
	}
	if skipped > 0 {
		fmt.Fprintf(&b, ", %d rules skipped", skipped)
	}
	if run.Stats.CacheHits > 0 {
		fmt.Fprintf(&b, ", %d cache hits", run.Stats.CacheHits)
	}
	if run.Stats.Failed > 0 {
		fmt.Fprintf(&b, ", %d files failed", run.Stats.Failed)
	}
	return b.String()
}
