package jtext

import (
	"reflect"
	"testing"
)

func TestBlock(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		open     int
		wantBody string
		wantEnd  int
		wantOK   bool
	}{
		{"nested braces", "{a{b}c}", 0, "a{b}c", 6, true},
		{"empty block", "{}", 0, "", 1, true},
		{"offset open", "if (x) { y(); }", 7, " y(); ", 14, true},
		{"not a brace", "abc", 1, "", 0, false},
		{"out of range", "{}", 5, "", 0, false},
		{"negative index", "{}", -1, "", 0, false},
		{"unbalanced", "{a{b}", 0, "", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, end, ok := Block(tc.text, tc.open)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if body != tc.wantBody {
				t.Errorf("body = %q, want %q", body, tc.wantBody)
			}
			if end != tc.wantEnd {
				t.Errorf("end = %d, want %d", end, tc.wantEnd)
			}
		})
	}
}

func TestFinallyBlocks(t *testing.T) {
	text := `try { conn.open(); } finally { conn.close(); }
try { b(); } finally{cleanup();}`

	blocks, orphans := FinallyBlocks(text)
	want := []string{" conn.close(); ", "cleanup();"}
	if !reflect.DeepEqual(blocks, want) {
		t.Errorf("blocks = %q, want %q", blocks, want)
	}
	if orphans != 0 {
		t.Errorf("orphans = %d, want 0", orphans)
	}
}

func TestFinallyBlocksOrphan(t *testing.T) {
	blocks, orphans := FinallyBlocks("finally { a(); } finally {")
	if len(blocks) != 1 || blocks[0] != " a(); " {
		t.Errorf("blocks = %q, want one block", blocks)
	}
	if orphans != 1 {
		t.Errorf("orphans = %d, want 1", orphans)
	}
}

func TestFinallyBlocksIgnoresIdentifiers(t *testing.T) {
	blocks, orphans := FinallyBlocks("int finallyCount = 0; { x(); }")
	if len(blocks) != 0 || orphans != 0 {
		t.Errorf("expected nothing, got blocks=%q orphans=%d", blocks, orphans)
	}
}

func TestLoopBlocks(t *testing.T) {
	text := `for (int i = 0; i < n; i++) { sum += i; }
while (active) { poll(); }
do { drain(); } while (more);`

	blocks, orphans := LoopBlocks(text)
	want := []string{" sum += i; ", " poll(); ", " drain(); "}
	if !reflect.DeepEqual(blocks, want) {
		t.Errorf("blocks = %q, want %q", blocks, want)
	}
	if orphans != 0 {
		t.Errorf("orphans = %d, want 0", orphans)
	}
}

func TestLoopBlocksSkipsSingleStatementBodies(t *testing.T) {
	blocks, _ := LoopBlocks("while (x) y();\nfor (;;) z();")
	if len(blocks) != 0 {
		t.Errorf("expected no blocks for single-statement loops, got %q", blocks)
	}
}

func TestLoopBlocksNestedReportsBoth(t *testing.T) {
	text := "for (a) { while (b) { c(); } }"
	blocks, _ := LoopBlocks(text)

	want := []string{" while (b) { c(); } ", " c(); "}
	if !reflect.DeepEqual(blocks, want) {
		t.Errorf("blocks = %q, want %q", blocks, want)
	}
}

func TestLoopBlocksBalancesHeaderParens(t *testing.T) {
	text := "for (int i = f(a, g(b)); i < n; i++) { run(); }"
	blocks, _ := LoopBlocks(text)
	if len(blocks) != 1 || blocks[0] != " run(); " {
		t.Errorf("blocks = %q, want [\" run(); \"]", blocks)
	}
}
