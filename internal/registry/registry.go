// Package registry loads and holds tag catalogs: the definitions the
// extractor detects base tags with, and the compound definitions the
// resolver folds on top. Catalogs come from TOML or YAML files, or from
// the embedded defaults.
package registry

import (
	"regexp"

	"taglint/internal/syntax"
)

// DetectKind selects which detector a tag definition drives.
type DetectKind uint8

const (
	DetectPattern DetectKind = iota
	DetectMetric
	DetectNode
	DetectContextual
)

func (k DetectKind) String() string {
	switch k {
	case DetectPattern:
		return "pattern"
	case DetectMetric:
		return "metric"
	case DetectNode:
		return "node"
	case DetectContextual:
		return "contextual"
	}
	return "unknown"
}

// MatchMode says how a multi-pattern detection combines its patterns.
type MatchMode uint8

const (
	// MatchAny fires on the first pattern that hits.
	MatchAny MatchMode = iota
	// MatchAll requires every live pattern to hit.
	MatchAll
)

// Context names the block family a contextual detection searches.
type Context uint8

const (
	ContextFinally Context = iota
	ContextLoop
)

func (c Context) String() string {
	switch c {
	case ContextFinally:
		return "finally"
	case ContextLoop:
		return "loop"
	}
	return "unknown"
}

// CompiledPattern pairs a pattern with its compiled form. Only patterns
// that compiled survive loading; failures are dropped with a notice.
type CompiledPattern struct {
	Source string
	Re     *regexp.Regexp
}

// PatternSpec drives the pattern tier: regexes over the whole file text.
type PatternSpec struct {
	Patterns []CompiledPattern
	Mode     MatchMode
	// CaseSensitive is the catalog default (true); false compiles the
	// patterns with (?i).
	CaseSensitive bool
	// ExcludeComments matches against normalized text, so hits inside
	// comments (and string literals) do not count.
	ExcludeComments bool
}

// MetricSpec drives the metric tier: a comparison against one syntax
// summary value.
type MetricSpec struct {
	Metric    syntax.Metric
	Op        syntax.CompareOp
	Threshold int
}

// NodeSpec drives the node tier: a boolean structural feature.
type NodeSpec struct {
	Feature syntax.Feature
}

// ContextualSpec drives the contextual tier: patterns applied inside
// finally or loop blocks only.
type ContextualSpec struct {
	Context  Context
	Patterns []CompiledPattern
}

// TagDef is one tag definition. Exactly one of the spec pointers is set,
// matching Detect.
type TagDef struct {
	Name     string
	Category string
	Detect   DetectKind

	Pattern    *PatternSpec
	Metric     *MetricSpec
	Node       *NodeSpec
	Contextual *ContextualSpec
}

// CompoundDef derives a tag from an expression over base tags. Severity
// and Description are catalog metadata surfaced by reports; they do not
// affect resolution.
type CompoundDef struct {
	Name        string
	Expression  string
	Severity    string
	Description string
}

// Registry is an immutable catalog snapshot. Fingerprint identifies the
// exact catalog content and feeds cache keys.
type Registry struct {
	Tags        []TagDef
	Compounds   []CompoundDef
	Fingerprint [32]byte
}

// TagNames returns the defined base tag names in declaration order.
func (r *Registry) TagNames() []string {
	names := make([]string, 0, len(r.Tags))
	for i := range r.Tags {
		names = append(names, r.Tags[i].Name)
	}
	return names
}

// Tag returns the definition for name, if the catalog has one. Catalogs
// are small; a linear scan beats carrying an index on the snapshot.
func (r *Registry) Tag(name string) (*TagDef, bool) {
	for i := range r.Tags {
		if r.Tags[i].Name == name {
			return &r.Tags[i], true
		}
	}
	return nil, false
}
