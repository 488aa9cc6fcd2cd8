package report

import (
	"taglint/internal/driver"
	"taglint/internal/rules"
)

// Exit codes for the CLI.
const (
	ExitClean      = 0
	ExitViolations = 1
	ExitError      = 2
)

// ExitCode implements the fail-on policy: exit 1 when any violation
// reaches the failOn severity, 0 otherwise. Engine failures map to
// ExitError at the call site; a completed run never produces it here.
func ExitCode(run *driver.RunResult, failOn rules.Severity) int {
	for i := range run.Files {
		out := run.Files[i].Outcome
		if out == nil {
			continue
		}
		for _, v := range out.Violations {
			if v.Severity.AtLeast(failOn) {
				return ExitViolations
			}
		}
	}
	return ExitClean
}
