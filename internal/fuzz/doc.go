// Package fuzztests houses Go fuzz harnesses that exercise the text
// pipeline (normalize -> strip -> blocks -> extract) and the tag
// expression parser. Its goal is to smoke test robustness and guard
// against panics or runaway scans on arbitrary inputs.
package fuzztests
