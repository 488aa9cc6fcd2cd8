package tagexpr

// Grammar, lowest precedence first:
//
//	or      := and ('||' and)*
//	and     := unary ('&&' unary)*
//	unary   := '!' unary | primary
//	primary := ATOM | '(' or ')'
//
// Both binary operators are left-associative. Parsing uses the usual
// precedence-climbing loop over a one-token lookahead.
type parser struct {
	lx  *lexer
	tok token
}

// Parse turns an expression into its tree. The error is always a
// *SyntaxError; tag names are not checked against any catalog here.
func Parse(expr string) (*Node, error) {
	p := &parser{lx: newLexer(expr)}
	if err := p.bump(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokEOF {
		return nil, &SyntaxError{Off: p.tok.off, Msg: "empty expression"}
	}

	node, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, &SyntaxError{Off: p.tok.off, Msg: "unexpected " + p.tok.kind.String() + " after expression"}
	}
	return node, nil
}

func (p *parser) bump() error {
	tok, err := p.lx.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func binaryPrec(kind tokenKind) (int, bool) {
	switch kind {
	case tokOrOr:
		return 1, true
	case tokAndAnd:
		return 2, true
	default:
		return 0, false
	}
}

func (p *parser) parseBinary(minPrec int) (*Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		prec, isBinary := binaryPrec(p.tok.kind)
		if !isBinary || prec < minPrec {
			return left, nil
		}
		op := p.tok.kind
		if err := p.bump(); err != nil {
			return nil, err
		}

		// left-associative: climb with prec+1
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}

		kind := NodeAnd
		if op == tokOrOr {
			kind = NodeOr
		}
		left = &Node{Kind: kind, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (*Node, error) {
	if p.tok.kind != tokBang {
		return p.parsePrimary()
	}

	if err := p.bump(); err != nil {
		return nil, err
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	// '!' directly on an atom folds into the atom; double negation and
	// negated groups keep an explicit NodeNot.
	if operand.Kind == NodeAtom && !operand.Negated {
		return &Node{Kind: NodeAtom, Name: operand.Name, Negated: true}, nil
	}
	return &Node{Kind: NodeNot, Left: operand}, nil
}

func (p *parser) parsePrimary() (*Node, error) {
	switch p.tok.kind {
	case tokAtom:
		node := &Node{Kind: NodeAtom, Name: p.tok.text}
		if err := p.bump(); err != nil {
			return nil, err
		}
		return node, nil

	case tokLParen:
		open := p.tok.off
		if err := p.bump(); err != nil {
			return nil, err
		}
		node, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, &SyntaxError{Off: open, Msg: "unclosed '('"}
		}
		if err := p.bump(); err != nil {
			return nil, err
		}
		return node, nil

	default:
		return nil, &SyntaxError{Off: p.tok.off, Msg: "expected tag or '(', found " + p.tok.kind.String()}
	}
}
