package registry

import (
	_ "embed"
	"fmt"

	"taglint/internal/diag"
)

//go:embed builtin/tags.toml
var builtinTags []byte

// Builtin returns the embedded default catalog. The embedded file is part
// of the binary; failing to parse it is a build defect, not input error.
func Builtin() *Registry {
	reg, err := ParseTOML(builtinTags, "builtin:tags.toml", diag.NopReporter{})
	if err != nil {
		panic(fmt.Errorf("builtin tag catalog: %w", err))
	}
	return reg
}

// BuiltinTOML returns a copy of the embedded catalog source, for
// exporting a starting point users can edit.
func BuiltinTOML() []byte {
	out := make([]byte, len(builtinTags))
	copy(out, builtinTags)
	return out
}
