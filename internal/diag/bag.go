package diag

import (
	"sort"
)

// Bag accumulates notices up to a fixed cap. The cap keeps a badly broken
// catalog or directory from flooding the output.
type Bag struct {
	items []Notice
	max   uint16
}

func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	return &Bag{
		items: make([]Notice, 0, min(max, 64)),
		max:   uint16(max),
	}
}

// Add appends a notice unless the cap is reached. Returns false when the
// notice was discarded.
func (b *Bag) Add(n Notice) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, n)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors reports whether any notice is SevError or worse.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any notice is SevWarning or worse.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the notices backing array. Callers must not modify it.
func (b *Bag) Items() []Notice {
	return b.items
}

// Merge appends the notices from other, growing the cap when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if newTotal > int(b.max) {
		b.max = uint16(newTotal)
	}
	b.items = append(b.items, other.items...)
}

// Sort orders notices by path, code, severity (desc), then message, so
// output is deterministic across runs.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		ni, nj := b.items[i], b.items[j]
		if ni.Path != nj.Path {
			return ni.Path < nj.Path
		}
		if ni.Code != nj.Code {
			return ni.Code < nj.Code
		}
		if ni.Severity != nj.Severity {
			return ni.Severity > nj.Severity
		}
		return ni.Message < nj.Message
	})
}

// Dedup removes exact repeats (same code, path and message), keeping first
// occurrences in order.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		path string
		msg  string
	}
	seen := make(map[key]bool, len(b.items))
	out := b.items[:0]
	for _, n := range b.items {
		k := key{code: n.Code, path: n.Path, msg: n.Message}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, n)
	}
	b.items = out
}
