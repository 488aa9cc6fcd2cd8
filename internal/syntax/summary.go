// Package syntax defines the structural summary a parser hands to the tag
// extractor. The summary is deliberately tiny: counts and booleans, no
// trees. Analysis works fine without one; the metric and node detector
// tiers just stay quiet.
package syntax

// Summary captures the structural facts the detectors compare against.
type Summary struct {
	MethodCount   int
	Complexity    int // cyclomatic estimate, starts at 1
	MaxNesting    int
	LineCount     int
	HasLoop       bool
	HasNestedLoop bool
}

// Metric names a numeric field of Summary.
type Metric uint8

const (
	MetricMethodCount Metric = iota
	MetricComplexity
	MetricNesting
	MetricLineCount
)

func (m Metric) String() string {
	switch m {
	case MetricMethodCount:
		return "method_count"
	case MetricComplexity:
		return "cyclomatic_complexity"
	case MetricNesting:
		return "max_nesting_depth"
	case MetricLineCount:
		return "line_count"
	}
	return "unknown_metric"
}

// ParseMetric maps catalog spellings onto metrics.
func ParseMetric(s string) (Metric, bool) {
	switch s {
	case "method_count":
		return MetricMethodCount, true
	case "cyclomatic_complexity", "complexity":
		return MetricComplexity, true
	case "max_nesting_depth", "nesting_depth":
		return MetricNesting, true
	case "line_count":
		return MetricLineCount, true
	}
	return 0, false
}

// Value reads the named metric off the summary.
func (s *Summary) Value(m Metric) int {
	switch m {
	case MetricMethodCount:
		return s.MethodCount
	case MetricComplexity:
		return s.Complexity
	case MetricNesting:
		return s.MaxNesting
	case MetricLineCount:
		return s.LineCount
	}
	return 0
}

// Feature names a boolean structural fact.
type Feature uint8

const (
	FeatureLoop Feature = iota
	FeatureNestedLoop
)

func (f Feature) String() string {
	switch f {
	case FeatureLoop:
		return "has_loop"
	case FeatureNestedLoop:
		return "has_nested_loop"
	}
	return "unknown_feature"
}

// ParseFeature maps catalog spellings onto features.
func ParseFeature(s string) (Feature, bool) {
	switch s {
	case "has_loop", "loop":
		return FeatureLoop, true
	case "has_nested_loop", "nested_loop":
		return FeatureNestedLoop, true
	}
	return 0, false
}

// Has reads the named feature off the summary.
func (s *Summary) Has(f Feature) bool {
	switch f {
	case FeatureLoop:
		return s.HasLoop
	case FeatureNestedLoop:
		return s.HasNestedLoop
	}
	return false
}
