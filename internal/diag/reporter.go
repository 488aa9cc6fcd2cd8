package diag

import "fmt"

// Reporter is the minimal contract for receiving notices from engine
// stages. Implementations: BagReporter (collects into a Bag), NopReporter,
// DedupReporter (suppresses repeats). A nil Reporter is tolerated and
// behaves like NopReporter.
type Reporter interface {
	Report(n Notice)
}

// BagReporter writes every notice into Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(n Notice) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(n)
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(Notice) {}

type dedupKey struct {
	code Code
	sev  Severity
	path string
	msg  string
}

// DedupReporter wraps another Reporter and suppresses notices that repeat
// an earlier code, severity, path and message. Watch mode re-analyzes the
// same files over and over; without this the same dropped-pattern warning
// would pile up every run.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(n Notice) {
	if r == nil {
		return
	}
	key := dedupKey{code: n.Code, sev: n.Severity, path: n.Path, msg: n.Message}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(n)
	}
}

// Warnf is the common shorthand for recoverable input defects.
func Warnf(r Reporter, code Code, path, detail, format string, args ...any) {
	report(r, SevWarning, code, path, detail, format, args...)
}

// Errorf records a notice for failures the caller also returns as errors.
func Errorf(r Reporter, code Code, path, detail, format string, args ...any) {
	report(r, SevError, code, path, detail, format, args...)
}

// Infof records an informational notice.
func Infof(r Reporter, code Code, path, detail, format string, args ...any) {
	report(r, SevInfo, code, path, detail, format, args...)
}

func report(r Reporter, sev Severity, code Code, path, detail, format string, args ...any) {
	if r == nil {
		return
	}
	r.Report(Notice{
		Severity: sev,
		Code:     code,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
		Detail:   detail,
	})
}
