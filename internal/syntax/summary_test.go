package syntax

import "testing"

func TestValueReadsEveryMetric(t *testing.T) {
	sum := &Summary{MethodCount: 12, Complexity: 7, MaxNesting: 4, LineCount: 420}

	cases := []struct {
		metric Metric
		want   int
	}{
		{MetricMethodCount, 12},
		{MetricComplexity, 7},
		{MetricNesting, 4},
		{MetricLineCount, 420},
	}
	for _, tc := range cases {
		if got := sum.Value(tc.metric); got != tc.want {
			t.Errorf("Value(%s) = %d, want %d", tc.metric, got, tc.want)
		}
	}
}

func TestParseMetricSpellings(t *testing.T) {
	for _, s := range []string{"method_count", "cyclomatic_complexity", "complexity", "max_nesting_depth", "line_count"} {
		if _, ok := ParseMetric(s); !ok {
			t.Errorf("ParseMetric(%q) unexpectedly failed", s)
		}
	}
	if _, ok := ParseMetric("halstead"); ok {
		t.Error("unknown metric should not parse")
	}
}

func TestFeatures(t *testing.T) {
	sum := &Summary{HasLoop: true}
	if !sum.Has(FeatureLoop) {
		t.Error("expected FeatureLoop")
	}
	if sum.Has(FeatureNestedLoop) {
		t.Error("did not expect FeatureNestedLoop")
	}

	if _, ok := ParseFeature("has_nested_loop"); !ok {
		t.Error("ParseFeature(has_nested_loop) failed")
	}
	if _, ok := ParseFeature("recursion"); ok {
		t.Error("unknown feature should not parse")
	}
}

func TestCompareOps(t *testing.T) {
	cases := []struct {
		op         string
		have, want int
		expect     bool
	}{
		{">=", 10, 10, true},
		{">=", 9, 10, false},
		{">", 10, 10, false},
		{">", 11, 10, true},
		{"<=", 10, 10, true},
		{"<", 10, 10, false},
		{"==", 3, 3, true},
		{"==", 3, 4, false},
	}
	for _, tc := range cases {
		op, ok := ParseCompareOp(tc.op)
		if !ok {
			t.Fatalf("ParseCompareOp(%q) failed", tc.op)
		}
		if got := op.Compare(tc.have, tc.want); got != tc.expect {
			t.Errorf("%d %s %d = %v, want %v", tc.have, tc.op, tc.want, got, tc.expect)
		}
	}

	if _, ok := ParseCompareOp("!="); ok {
		t.Error("'!=' is not a supported comparison")
	}
}
