package tagexpr

import (
	"slices"
	"testing"
)

func tagSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func evalExpr(t *testing.T, expr string, tags map[string]bool) Result {
	t.Helper()
	return mustParse(t, expr).Eval(tags)
}

func TestEvalTruthTable(t *testing.T) {
	cases := []struct {
		expr string
		tags map[string]bool
		want bool
	}{
		{"A", tagSet("A"), true},
		{"A", tagSet(), false},
		{"A", tagSet("B"), false},
		{"!A", tagSet(), true},
		{"!A", tagSet("A"), false},
		{"A && B", tagSet("A", "B"), true},
		{"A && B", tagSet("A"), false},
		{"A || B", tagSet("B"), true},
		{"A || B", tagSet(), false},
		{"A || B && C", tagSet("A"), true},
		{"A || B && C", tagSet("B"), false},
		{"A || B && C", tagSet("B", "C"), true},
		{"(A || B) && C", tagSet("A"), false},
		{"(A || B) && C", tagSet("A", "C"), true},
		{"!(A || B)", tagSet(), true},
		{"!(A || B)", tagSet("B"), false},
		{"!!A", tagSet("A"), true},
		{"!!A", tagSet(), false},
		{"A && !B", tagSet("A"), true},
		{"A && !B", tagSet("A", "B"), false},
	}

	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got := evalExpr(t, tc.expr, tc.tags)
			if got.Value != tc.want {
				t.Errorf("eval(%q, %v) = %v, want %v", tc.expr, tc.tags, got.Value, tc.want)
			}
		})
	}
}

func TestEvalMatchedCollectsPresentAtoms(t *testing.T) {
	res := evalExpr(t, "A && B", tagSet("A", "B"))
	if !slices.Equal(res.Matched, []string{"A", "B"}) {
		t.Errorf("matched = %v, want [A B]", res.Matched)
	}
}

func TestEvalMatchedShortCircuits(t *testing.T) {
	// '||' decides on the left side; B is never even looked at.
	res := evalExpr(t, "A || B", tagSet("A", "B"))
	if !res.Value {
		t.Fatal("expected true")
	}
	if !slices.Equal(res.Matched, []string{"A"}) {
		t.Errorf("matched = %v, want [A]", res.Matched)
	}

	// A failing '&&' left side hides the right side too.
	res = evalExpr(t, "A && B", tagSet("B"))
	if res.Value {
		t.Fatal("expected false")
	}
	if len(res.Matched) != 0 {
		t.Errorf("matched = %v, want none", res.Matched)
	}
}

func TestEvalMatchedAbsentUnderNotStaysOut(t *testing.T) {
	// !B succeeds because B is absent; an absent tag was never observed,
	// so it must not be reported as matched.
	res := evalExpr(t, "A && !B", tagSet("A"))
	if !res.Value {
		t.Fatal("expected true")
	}
	if !slices.Equal(res.Matched, []string{"A"}) {
		t.Errorf("matched = %v, want [A]", res.Matched)
	}
}

func TestEvalMatchedPresentUnderNotIsObserved(t *testing.T) {
	// The negation fails because B is present; the observation itself
	// still happened and is reported.
	res := evalExpr(t, "!B", tagSet("B"))
	if res.Value {
		t.Fatal("expected false")
	}
	if !slices.Equal(res.Matched, []string{"B"}) {
		t.Errorf("matched = %v, want [B]", res.Matched)
	}
}

func TestEvalMatchedDedupes(t *testing.T) {
	res := evalExpr(t, "A && A", tagSet("A"))
	if !res.Value {
		t.Fatal("expected true")
	}
	if !slices.Equal(res.Matched, []string{"A"}) {
		t.Errorf("matched = %v, want [A]", res.Matched)
	}
}

func TestDeps(t *testing.T) {
	cases := []struct {
		expr string
		want []string
	}{
		{"A", []string{"A"}},
		{"A && !B", []string{"A", "!B"}},
		{"!(A || B)", []string{"A", "B"}},
		{"A && (B || A)", []string{"A", "B"}},
		{"!A || !A", []string{"!A"}},
		{"A || !A", []string{"A", "!A"}},
	}

	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got := mustParse(t, tc.expr).Deps()
			if !slices.Equal(got, tc.want) {
				t.Errorf("deps(%q) = %v, want %v", tc.expr, got, tc.want)
			}
		})
	}
}

func TestWeightGrowsWithStructure(t *testing.T) {
	weights := make([]int, 0, 4)
	for _, expr := range []string{"A", "!A", "A && B", "A && B || !C"} {
		weights = append(weights, mustParse(t, expr).Weight())
	}

	for i := 1; i < len(weights); i++ {
		if weights[i] <= weights[i-1] {
			t.Errorf("expected strictly growing weights, got %v", weights)
		}
	}
}

func TestWeightValues(t *testing.T) {
	cases := []struct {
		expr string
		want int
	}{
		{"A", 1},
		{"!A", 2},
		{"A && B", 4},
		{"!(A || B)", 5},
		{"A && B || !C", 8},
	}
	for _, tc := range cases {
		if got := mustParse(t, tc.expr).Weight(); got != tc.want {
			t.Errorf("weight(%q) = %d, want %d", tc.expr, got, tc.want)
		}
	}
}
