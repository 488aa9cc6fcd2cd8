package rules

import "strings"

// Severity ranks a violation. The zero value is SevLow so that a rule
// whose severity failed to parse degrades to the mildest rank instead
// of the harshest.
type Severity uint8

const (
	SevLow Severity = iota
	SevMedium
	SevHigh
	SevCritical
)

// Weight is the numeric rank used for priority arithmetic.
func (s Severity) Weight() int {
	switch s {
	case SevCritical:
		return 100
	case SevHigh:
		return 75
	case SevMedium:
		return 50
	default:
		return 25
	}
}

func (s Severity) String() string {
	switch s {
	case SevCritical:
		return "CRITICAL"
	case SevHigh:
		return "HIGH"
	case SevMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// ParseSeverity accepts the rank in any case. The second return is
// false for unknown input; callers decide whether that deserves a
// notice.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return SevCritical, true
	case "HIGH":
		return SevHigh, true
	case "MEDIUM":
		return SevMedium, true
	case "LOW", "":
		return SevLow, true
	default:
		return SevLow, false
	}
}

// AtLeast reports whether s ranks at or above min. Used by the
// fail-on exit policy.
func (s Severity) AtLeast(min Severity) bool {
	return s >= min
}
