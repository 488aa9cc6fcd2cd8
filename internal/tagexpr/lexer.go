package tagexpr

// lexer walks an expression byte by byte. Tag expressions are short
// single-line strings, so the cursor is just an offset into the source.
type lexer struct {
	src string
	off int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (lx *lexer) eof() bool {
	return lx.off >= len(lx.src)
}

func (lx *lexer) peek() byte {
	if lx.eof() {
		return 0
	}
	return lx.src[lx.off]
}

func (lx *lexer) next() (token, error) {
	lx.skipSpace()
	start := lx.off
	if lx.eof() {
		return token{kind: tokEOF, off: start}, nil
	}

	c := lx.src[lx.off]
	switch {
	case c == '(':
		lx.off++
		return token{kind: tokLParen, off: start}, nil
	case c == ')':
		lx.off++
		return token{kind: tokRParen, off: start}, nil
	case c == '!':
		lx.off++
		return token{kind: tokBang, off: start}, nil
	case c == '&':
		lx.off++
		if lx.peek() != '&' {
			return token{}, &SyntaxError{Off: start, Msg: "expected '&&'"}
		}
		lx.off++
		return token{kind: tokAndAnd, off: start}, nil
	case c == '|':
		lx.off++
		if lx.peek() != '|' {
			return token{}, &SyntaxError{Off: start, Msg: "expected '||'"}
		}
		lx.off++
		return token{kind: tokOrOr, off: start}, nil
	case isAtomStart(c):
		lx.off++
		for !lx.eof() && isAtomPart(lx.src[lx.off]) {
			lx.off++
		}
		return token{kind: tokAtom, text: lx.src[start:lx.off], off: start}, nil
	default:
		return token{}, &SyntaxError{Off: start, Msg: unexpectedChar(c)}
	}
}

func (lx *lexer) skipSpace() {
	for !lx.eof() {
		switch lx.src[lx.off] {
		case ' ', '\t', '\n', '\r':
			lx.off++
		default:
			return
		}
	}
}

// Atoms are UPPERCASE_WITH_DIGITS: first an uppercase letter, then
// uppercase letters, digits or underscores. There are no word operators;
// AND, OR and NOT lex as ordinary tag names.
func isAtomStart(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isAtomPart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

// ValidTagName reports whether s is a legal atom, i.e. whether the
// expression language could ever reference it. Catalogs reject tag names
// that fail this.
func ValidTagName(s string) bool {
	if s == "" || !isAtomStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isAtomPart(s[i]) {
			return false
		}
	}
	return true
}

func unexpectedChar(c byte) string {
	if c >= 'a' && c <= 'z' {
		return "tags are uppercase; unexpected lowercase letter"
	}
	return "unexpected character " + quoteByte(c)
}

func quoteByte(c byte) string {
	if c >= 0x20 && c < 0x7F {
		return "'" + string(c) + "'"
	}
	return "(non-printable)"
}
