package tagexpr

import "fmt"

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokAtom
	tokAndAnd // &&
	tokOrOr   // ||
	tokBang   // !
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokAtom:
		return "tag"
	case tokAndAnd:
		return "'&&'"
	case tokOrOr:
		return "'||'"
	case tokBang:
		return "'!'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	}
	return "unknown token"
}

type token struct {
	kind tokenKind
	text string // atom name, empty otherwise
	off  int
}

// SyntaxError describes why an expression failed to parse, with the byte
// offset of the offending spot.
type SyntaxError struct {
	Off int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Off, e.Msg)
}
