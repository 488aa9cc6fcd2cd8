package diag

import (
	"strings"
	"testing"
)

func TestBagCapStopsAccepting(t *testing.T) {
	bag := NewBag(2)

	if !bag.Add(Notice{Code: RegInvalidPattern, Severity: SevWarning, Message: "one"}) {
		t.Error("first Add should succeed")
	}
	if !bag.Add(Notice{Code: RegInvalidPattern, Severity: SevWarning, Message: "two"}) {
		t.Error("second Add should succeed")
	}
	if bag.Add(Notice{Code: RegInvalidPattern, Severity: SevWarning, Message: "three"}) {
		t.Error("Add beyond cap should report false")
	}
	if bag.Len() != 2 {
		t.Errorf("expected 2 notices, got %d", bag.Len())
	}
}

func TestBagSeverityQueries(t *testing.T) {
	bag := NewBag(8)
	bag.Add(Notice{Severity: SevInfo, Code: SynSummaryUnavailable, Message: "info"})

	if bag.HasWarnings() {
		t.Error("info-only bag must not report warnings")
	}

	bag.Add(Notice{Severity: SevWarning, Code: RegInvalidPattern, Message: "warn"})
	if !bag.HasWarnings() {
		t.Error("expected HasWarnings after warning")
	}
	if bag.HasErrors() {
		t.Error("no errors were added")
	}

	bag.Add(Notice{Severity: SevError, Code: IOLoadFileError, Message: "err"})
	if !bag.HasErrors() {
		t.Error("expected HasErrors after error")
	}
}

func TestBagMergeGrowsCap(t *testing.T) {
	a := NewBag(1)
	a.Add(Notice{Code: RegInvalidPattern, Message: "a"})

	b := NewBag(2)
	b.Add(Notice{Code: ExprInvalid, Message: "b1"})
	b.Add(Notice{Code: ExprInvalid, Message: "b2"})

	a.Merge(b)
	if a.Len() != 3 {
		t.Fatalf("expected 3 notices after merge, got %d", a.Len())
	}
}

func TestBagSortIsDeterministic(t *testing.T) {
	bag := NewBag(8)
	bag.Add(Notice{Severity: SevWarning, Code: ExprInvalid, Path: "b.java", Message: "later path"})
	bag.Add(Notice{Severity: SevInfo, Code: ExprInvalid, Path: "a.java", Message: "same spot info"})
	bag.Add(Notice{Severity: SevError, Code: ExprInvalid, Path: "a.java", Message: "same spot info"})
	bag.Add(Notice{Severity: SevWarning, Code: RegInvalidPattern, Path: "a.java", Message: "lower code"})

	bag.Sort()
	items := bag.Items()

	if items[0].Code != RegInvalidPattern {
		t.Errorf("expected lower code first within a path, got %v", items[0].Code)
	}
	if items[1].Severity != SevError {
		t.Errorf("expected higher severity first on ties, got %v", items[1].Severity)
	}
	if items[3].Path != "b.java" {
		t.Errorf("expected b.java last, got %q", items[3].Path)
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(8)
	n := Notice{Severity: SevWarning, Code: RegInvalidPattern, Path: "tags.toml", Message: "bad pattern"}
	bag.Add(n)
	bag.Add(n)
	bag.Add(Notice{Severity: SevWarning, Code: RegInvalidPattern, Path: "tags.toml", Message: "other pattern"})

	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 notices after dedup, got %d", bag.Len())
	}
}

func TestDedupReporterSuppressesRepeats(t *testing.T) {
	bag := NewBag(8)
	rep := NewDedupReporter(BagReporter{Bag: bag})

	for range 3 {
		Warnf(rep, RegInvalidPattern, "tags.toml", "[", "pattern does not compile")
	}
	Warnf(rep, RegInvalidPattern, "rules.toml", "[", "pattern does not compile")

	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique notices, got %d", bag.Len())
	}
}

func TestFormatNotices(t *testing.T) {
	notices := []Notice{
		{Severity: SevWarning, Code: ExprInvalid, Path: "rules.toml", Message: "rule R1 skipped", Detail: "A &&"},
		{Severity: SevError, Code: IOLoadFileError, Path: "a.java", Message: "failed to load file:\npermission denied"},
	}

	got := FormatNotices(notices)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "ERROR IO4001 a.java: failed to load file: permission denied" {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	if lines[1] != "WARNING EXP2001 rules.toml: rule R1 skipped (A &&)" {
		t.Errorf("unexpected second line: %q", lines[1])
	}
}
