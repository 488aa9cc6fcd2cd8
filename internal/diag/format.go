package diag

import (
	"fmt"
	"sort"
	"strings"
)

// FormatNotices renders notices into a stable single-line-per-entry
// representation suitable for golden comparisons and stderr output. Entries
// are sorted deterministically; the result carries no trailing newline and
// is empty when there is nothing to say.
func FormatNotices(notices []Notice) string {
	if len(notices) == 0 {
		return ""
	}

	rendered := make([]Notice, len(notices))
	copy(rendered, notices)
	sort.SliceStable(rendered, func(i, j int) bool {
		ni, nj := rendered[i], rendered[j]
		if ni.Path != nj.Path {
			return ni.Path < nj.Path
		}
		if ni.Code != nj.Code {
			return ni.Code < nj.Code
		}
		if ni.Severity != nj.Severity {
			return ni.Severity > nj.Severity
		}
		return ni.Message < nj.Message
	})

	var b strings.Builder
	for i, n := range rendered {
		b.WriteString(FormatNotice(n))
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// FormatNotice renders one notice: SEVERITY CODE [path:] message [(detail)].
func FormatNotice(n Notice) string {
	var b strings.Builder
	b.WriteString(n.Severity.String())
	b.WriteByte(' ')
	b.WriteString(n.Code.ID())
	b.WriteByte(' ')
	if n.Path != "" {
		b.WriteString(n.Path)
		b.WriteString(": ")
	}
	b.WriteString(sanitizeMessage(n.Message))
	if n.Detail != "" {
		fmt.Fprintf(&b, " (%s)", sanitizeMessage(n.Detail))
	}
	return b.String()
}

// sanitizeMessage keeps every entry on one line.
func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	return strings.TrimSpace(msg)
}
