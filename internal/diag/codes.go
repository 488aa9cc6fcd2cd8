package diag

import (
	"fmt"
)

type Code uint16

const (
	// UnknownCode is the zero value; real notices always carry a catalog code.
	UnknownCode Code = 0

	// Catalog loading (tag and rule files).
	RegInvalidPattern  Code = 1001
	RegUnknownDetector Code = 1002
	RegDuplicateTag    Code = 1003
	RegBadTagName      Code = 1004
	RegBadSeverity     Code = 1005
	RegBadMetric       Code = 1006
	RegBadContext      Code = 1007
	RegDuplicateRule   Code = 1008
	RegEmptyCatalog    Code = 1009
	RegUnknownKey      Code = 1010
	RegBadRule         Code = 1011

	// Tag expressions (compound definitions, rule conditions).
	ExprInvalid       Code = 2001
	ExprEmptyCompound Code = 2002
	ExprCompoundRef   Code = 2003

	// Text analysis.
	TextUnbalancedBlock Code = 3001

	// I/O.
	IOLoadFileError Code = 4001
	IORecodedInput  Code = 4002

	// Project manifest.
	PrjManifestError Code = 5001

	// Syntax summary provider.
	SynSummaryUnavailable Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:           "unknown notice",
	RegInvalidPattern:     "pattern does not compile and was dropped",
	RegUnknownDetector:    "unknown detector kind, definition skipped",
	RegDuplicateTag:       "duplicate tag definition, last one wins",
	RegBadTagName:         "tag name is not a valid atom, definition skipped",
	RegBadSeverity:        "unknown severity, treated as LOW",
	RegBadMetric:          "unknown metric, comparison or feature, definition skipped",
	RegBadContext:         "unknown context, definition skipped",
	RegDuplicateRule:      "duplicate rule id, last one wins",
	RegEmptyCatalog:       "catalog contains no definitions",
	RegUnknownKey:         "unknown catalog key ignored",
	RegBadRule:            "rule definition incomplete, skipped",
	ExprInvalid:           "tag expression does not parse, entry skipped",
	ExprEmptyCompound:     "compound tag has an empty expression, entry skipped",
	ExprCompoundRef:       "compound expression references another compound, entry skipped",
	TextUnbalancedBlock:   "block never closes, context skipped",
	IOLoadFileError:       "failed to load file",
	IORecodedInput:        "content is not valid UTF-8, reinterpreted as ISO 8859-1",
	PrjManifestError:      "project manifest is invalid",
	SynSummaryUnavailable: "syntax summary unavailable, metric and node tiers disabled",
}

// ID renders the stable machine-readable identifier, grouped by subsystem.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("REG%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("EXP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TXT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("SYN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
