package rules

import (
	_ "embed"
	"fmt"

	"taglint/internal/diag"
)

//go:embed builtin/rules.toml
var builtinRules []byte

// Builtin returns the embedded default rule set. The embedded file is
// part of the binary; failing to parse it is a build defect, not input
// error.
func Builtin() *Catalog {
	cat, err := ParseTOML(builtinRules, "builtin:rules.toml", diag.NopReporter{})
	if err != nil {
		panic(fmt.Errorf("builtin rule catalog: %w", err))
	}
	return cat
}

// BuiltinTOML returns a copy of the embedded rule source, for exporting
// a starting point users can edit.
func BuiltinTOML() []byte {
	out := make([]byte, len(builtinRules))
	copy(out, builtinRules)
	return out
}
