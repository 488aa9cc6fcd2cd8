package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the taglint CLI.
// These variables can be overridden at build time via -ldflags.

var (
	// Version is the semantic version of the CLI. It stays plain so
	// machine formats can embed it verbatim.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Pretty renders Version with the major, minor and patch parts colored
// for terminal output. Anything that does not split into three parts is
// returned untouched.
func Pretty() string {
	rest := ""
	core := Version
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, rest = core[:i], core[i:]
	}
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2]) + rest
}
