// Package report renders run results for people and machines: a
// colored terminal view, a stable JSON envelope, SARIF 2.1.0 for code
// scanning uploads and a one-line-per-violation short format that
// golden tests diff against.
package report

import (
	"fmt"
	"io"

	"taglint/internal/driver"
	"taglint/internal/rules"
	"taglint/internal/source"
)

// Format selects an output renderer.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
	FormatSARIF  Format = "sarif"
	FormatShort  Format = "short"
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPretty, FormatJSON, FormatSARIF, FormatShort:
		return Format(s), nil
	case "":
		return FormatPretty, nil
	}
	return "", fmt.Errorf("unknown format %q (expected pretty, json, sarif or short)", s)
}

// Options configures rendering.
type Options struct {
	Format Format
	// Color enables severity coloring in the pretty format. The other
	// formats never color.
	Color bool
	// ShowTags prints each violation's matched tags.
	ShowTags bool
	// ShowSuggestions prints rule suggestions under violations.
	ShowSuggestions bool
	// FullPath prints absolute paths instead of paths relative to the
	// analyzed root.
	FullPath bool
	// Meta feeds tool identity into formats that embed it (SARIF).
	Meta Meta
}

// Meta identifies the producing tool inside machine formats.
type Meta struct {
	ToolName    string
	ToolVersion string
	Args        []string
}

// Render writes run in the format opts selects.
func Render(w io.Writer, run *driver.RunResult, cat *rules.Catalog, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return JSON(w, run, opts)
	case FormatSARIF:
		return SARIF(w, run, cat, opts)
	case FormatShort:
		return Short(w, run, opts)
	default:
		return Pretty(w, run, opts)
	}
}

// displayPath shortens path relative to the run root, or resolves it to
// an absolute path when full paths were requested.
func displayPath(root, path string, full bool) string {
	return source.DisplayPath(path, root, full)
}
