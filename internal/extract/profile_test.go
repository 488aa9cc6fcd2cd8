package extract

import (
	"slices"
	"testing"
)

func TestProfileSetAndQuery(t *testing.T) {
	p := NewProfile()
	p.Set("B_TAG", Provenance{Source: OriginPattern, Confidence: 1.0})
	p.Set("A_TAG", Provenance{Source: OriginFallback, Confidence: 0.8})

	if p.Len() != 2 {
		t.Fatalf("Len = %d, want 2", p.Len())
	}
	if !p.Has("A_TAG") || p.Has("MISSING") {
		t.Error("Has answered wrong")
	}
	if prov, ok := p.Get("A_TAG"); !ok || prov.Source != OriginFallback {
		t.Errorf("Get(A_TAG) = %+v, %v", prov, ok)
	}
	if names := p.Names(); !slices.Equal(names, []string{"A_TAG", "B_TAG"}) {
		t.Errorf("Names = %v, want sorted", names)
	}

	set := p.TagSet()
	if !set["A_TAG"] || !set["B_TAG"] || len(set) != 2 {
		t.Errorf("TagSet = %v", set)
	}
}

func TestProfileSetOverwrites(t *testing.T) {
	p := NewProfile()
	p.Set("T", Provenance{Source: OriginPattern, Confidence: 1.0, Evidence: []string{"old"}})
	p.Set("T", Provenance{Source: OriginContextual, Confidence: 0.9, Evidence: []string{"new"}})

	prov, _ := p.Get("T")
	if prov.Source != OriginContextual || prov.Evidence[0] != "new" {
		t.Errorf("later Set must replace provenance wholesale, got %+v", prov)
	}
	if p.Len() != 1 {
		t.Errorf("overwrite must not grow the profile, Len = %d", p.Len())
	}
}

func TestProfileZeroValueUsable(t *testing.T) {
	var p Profile
	if p.Has("X") || p.Len() != 0 || len(p.Names()) != 0 {
		t.Error("zero-value profile should read as empty")
	}
	p.Set("X", Provenance{Source: OriginPattern})
	if !p.Has("X") {
		t.Error("Set on a zero-value profile should initialize the map")
	}
}

func TestOriginStrings(t *testing.T) {
	want := map[Origin]string{
		OriginPattern:    "pattern",
		OriginMetric:     "metric",
		OriginNode:       "node",
		OriginContextual: "contextual",
		OriginFallback:   "fallback",
		OriginCompound:   "compound",
	}
	for origin, s := range want {
		if origin.String() != s {
			t.Errorf("Origin(%d).String() = %q, want %q", origin, origin.String(), s)
		}
	}
}
