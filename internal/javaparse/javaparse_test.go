package javaparse

import (
	"context"
	"testing"

	"taglint/internal/syntax"
)

func summarize(t *testing.T, code string) *syntax.Summary {
	t.Helper()
	sum, err := NewParser().Summarize(context.Background(), []byte(code))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	return sum
}

func TestSummarizeSimpleClass(t *testing.T) {
	sum := summarize(t, `package com.example;

public class Calculator {
    public Calculator() {
    }

    public int add(int a, int b) {
        return a + b;
    }
}
`)

	if sum.MethodCount != 2 {
		t.Errorf("MethodCount = %d, want 2 (constructor + method)", sum.MethodCount)
	}
	if sum.Complexity != 1 {
		t.Errorf("Complexity = %d, want the baseline 1", sum.Complexity)
	}
	if sum.MaxNesting != 0 {
		t.Errorf("MaxNesting = %d, want 0", sum.MaxNesting)
	}
	if sum.HasLoop || sum.HasNestedLoop {
		t.Error("no loops expected")
	}
	if sum.LineCount != 10 {
		t.Errorf("LineCount = %d, want 10", sum.LineCount)
	}
}

func TestSummarizeComplexity(t *testing.T) {
	sum := summarize(t, `public class C {
    public int f(int a, int b) {
        try {
            if (a > 0 && b > 0) {
                return a;
            }
        } catch (Exception e) {
            return b > 0 ? 1 : 0;
        }
        return 0;
    }
}
`)

	// 1 baseline + if + && + catch + ternary.
	if sum.Complexity != 5 {
		t.Errorf("Complexity = %d, want 5", sum.Complexity)
	}
	// try encloses the if.
	if sum.MaxNesting != 2 {
		t.Errorf("MaxNesting = %d, want 2", sum.MaxNesting)
	}
}

func TestSummarizeLoops(t *testing.T) {
	sum := summarize(t, `public class C {
    void nested(int[][] m) {
        for (int i = 0; i < m.length; i++) {
            while (busy()) {
                step();
            }
        }
    }
}
`)

	if !sum.HasLoop || !sum.HasNestedLoop {
		t.Errorf("expected nested loops: HasLoop=%v HasNestedLoop=%v", sum.HasLoop, sum.HasNestedLoop)
	}
	if sum.MaxNesting != 2 {
		t.Errorf("MaxNesting = %d, want 2", sum.MaxNesting)
	}
}

func TestSummarizeSequentialLoopsAreNotNested(t *testing.T) {
	sum := summarize(t, `public class C {
    void twice(java.util.List<String> items) {
        for (String s : items) {
            use(s);
        }
        for (String s : items) {
            use(s);
        }
    }
}
`)

	if !sum.HasLoop {
		t.Error("expected HasLoop")
	}
	if sum.HasNestedLoop {
		t.Error("sequential loops are not nested")
	}
	if sum.MaxNesting != 1 {
		t.Errorf("MaxNesting = %d, want 1", sum.MaxNesting)
	}
}

func TestSummarizeSwitchLabels(t *testing.T) {
	sum := summarize(t, `public class C {
    int pick(int x) {
        switch (x) {
            case 1: return 1;
            case 2: return 2;
            default: return 0;
        }
    }
}
`)

	// 1 baseline + two case labels; default does not count.
	if sum.Complexity != 3 {
		t.Errorf("Complexity = %d, want 3", sum.Complexity)
	}
	if sum.MaxNesting != 1 {
		t.Errorf("switch should deepen nesting, MaxNesting = %d", sum.MaxNesting)
	}
}

func TestSummarizeEmptyAndMalformed(t *testing.T) {
	empty := summarize(t, "")
	if empty.LineCount != 0 || empty.MethodCount != 0 || empty.Complexity != 1 {
		t.Errorf("empty input summary: %+v", empty)
	}

	// Tree-sitter recovers from garbage; the summary just stays flat.
	garbage := summarize(t, "this is not java at all {{{")
	if garbage.MethodCount != 0 || garbage.HasLoop {
		t.Errorf("garbage input summary: %+v", garbage)
	}
}

func TestSummarizeLineCountWithoutTrailingNewline(t *testing.T) {
	sum := summarize(t, "class A { }")
	if sum.LineCount != 1 {
		t.Errorf("LineCount = %d, want 1", sum.LineCount)
	}
}
