package diag

// Severity defines the importance of an engine notice. This scale describes
// the health of the analysis run itself; finding severity lives in the rules
// package.
type Severity uint8

const (
	// SevInfo is for informational notices.
	SevInfo Severity = iota
	// SevWarning is for recoverable input defects (a dropped pattern, a
	// skipped rule).
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
