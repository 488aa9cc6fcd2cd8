package source

import (
	"path/filepath"
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\r\n"))
	if !changed {
		t.Error("expected CRLF normalization to be detected")
	}
	if string(out) != "a\nb\n" {
		t.Errorf("expected %q, got %q", "a\nb\n", string(out))
	}

	// Lone \r stays untouched.
	out, changed = normalizeCRLF([]byte("a\rb"))
	if changed {
		t.Error("lone \\r must not count as a change")
	}
	if string(out) != "a\rb" {
		t.Errorf("expected %q, got %q", "a\rb", string(out))
	}
}

func TestRemoveBOM(t *testing.T) {
	out, had := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x'})
	if !had {
		t.Error("expected BOM to be detected")
	}
	if string(out) != "x" {
		t.Errorf("expected %q, got %q", "x", string(out))
	}

	out, had = removeBOM([]byte("xy"))
	if had {
		t.Error("short input must not report a BOM")
	}
	if string(out) != "xy" {
		t.Errorf("expected %q, got %q", "xy", string(out))
	}
}

func TestEnsureUTF8RecodesLatin1(t *testing.T) {
	// "Müller" in ISO 8859-1: 0xFC is not valid UTF-8 on its own.
	raw := []byte{'M', 0xFC, 'l', 'l', 'e', 'r'}
	out, recoded := ensureUTF8(raw)
	if !recoded {
		t.Fatal("expected Latin-1 recode")
	}
	if string(out) != "Müller" {
		t.Errorf("expected %q, got %q", "Müller", string(out))
	}

	out, recoded = ensureUTF8([]byte("plain"))
	if recoded {
		t.Error("valid UTF-8 must pass through untouched")
	}
	if string(out) != "plain" {
		t.Errorf("expected %q, got %q", "plain", string(out))
	}
}

func TestNormalizeAppliesEverything(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("caf\xE9\r\n")...)
	out, flags := Normalize(raw)

	if string(out) != "café\n" {
		t.Errorf("expected %q, got %q", "café\n", string(out))
	}
	for _, want := range []FileFlags{FileHadBOM, FileNormalizedCRLF, FileRecodedLatin1} {
		if flags&want == 0 {
			t.Errorf("expected flag %b to be set, got %b", want, flags)
		}
	}
}

func TestDisplayPath(t *testing.T) {
	base := filepath.Join("home", "dev", "proj")
	inside := filepath.Join(base, "src", "A.java")

	if got := DisplayPath(inside, base, false); got != "src/A.java" {
		t.Errorf("expected relative display, got %q", got)
	}

	outside := filepath.Join("elsewhere", "B.java")
	if got := DisplayPath(outside, base, false); got != outside {
		t.Errorf("expected fallback to original path, got %q", got)
	}
}
