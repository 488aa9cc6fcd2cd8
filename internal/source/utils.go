package source

import (
	"path/filepath"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Normalize prepares raw bytes for analysis: strips a UTF-8 BOM, folds
// CRLF to LF, and recodes non-UTF-8 input from ISO 8859-1. The returned
// flags record which transformations applied.
func Normalize(content []byte) ([]byte, FileFlags) {
	flags := FileFlags(0)

	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	content, recoded := ensureUTF8(content)
	if recoded {
		flags |= FileRecodedLatin1
	}
	return content, flags
}

// normalizeCRLF replaces every \r\n with \n, leaving lone \r untouched.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// ensureUTF8 reinterprets non-UTF-8 bytes as ISO 8859-1. Legacy Java
// sources are frequently Latin-1; every byte is a valid code point there,
// so the decode cannot fail.
func ensureUTF8(content []byte) ([]byte, bool) {
	if utf8.Valid(content) {
		return content, false
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return content, false
	}
	return out, true
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := 0
	for _, b := range content {
		if b == '\n' {
			n++
		}
	}
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}

func normalizePath(p string) string {
	// one canonical form so cache keys and reports agree across platforms
	return filepath.ToSlash(filepath.Clean(p))
}

// DisplayPath renders a path for reports: relative to base unless full is
// set or the file lies outside base.
func DisplayPath(path, base string, full bool) string {
	if full {
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
		return path
	}
	if base != "" {
		if rel, err := filepath.Rel(base, path); err == nil && filepath.IsLocal(rel) {
			return filepath.ToSlash(rel)
		}
	}
	return path
}
