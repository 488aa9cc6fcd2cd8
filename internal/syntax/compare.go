package syntax

// CompareOp is the comparison a metric detector applies to a threshold.
type CompareOp uint8

const (
	OpGE CompareOp = iota
	OpGT
	OpLE
	OpLT
	OpEQ
)

func (op CompareOp) String() string {
	switch op {
	case OpGE:
		return ">="
	case OpGT:
		return ">"
	case OpLE:
		return "<="
	case OpLT:
		return "<"
	case OpEQ:
		return "=="
	}
	return "?"
}

// ParseCompareOp accepts the operator spellings catalogs use.
func ParseCompareOp(s string) (CompareOp, bool) {
	switch s {
	case ">=", "ge":
		return OpGE, true
	case ">", "gt":
		return OpGT, true
	case "<=", "le":
		return OpLE, true
	case "<", "lt":
		return OpLT, true
	case "==", "=", "eq":
		return OpEQ, true
	}
	return 0, false
}

// Compare applies op between a measured value and the threshold.
func (op CompareOp) Compare(have, want int) bool {
	switch op {
	case OpGE:
		return have >= want
	case OpGT:
		return have > want
	case OpLE:
		return have <= want
	case OpLT:
		return have < want
	case OpEQ:
		return have == want
	}
	return false
}
