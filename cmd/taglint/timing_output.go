package main

import (
	"fmt"
	"io"

	"taglint/internal/observ"
)

func printTimings(out io.Writer, timings observ.Report) {
	if out == nil || len(timings.Phases) == 0 {
		return
	}
	fmt.Fprintln(out, "timings:")
	for _, p := range timings.Phases {
		line := fmt.Sprintf("  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			line += "  // " + p.Note
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "  %-20s %7.2f ms\n", "total", timings.TotalMS)
}
