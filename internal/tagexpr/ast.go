package tagexpr

import "strings"

// NodeKind discriminates expression tree nodes.
type NodeKind uint8

const (
	// NodeAtom is a tag reference, possibly directly negated (!TAG folds
	// into the atom instead of wrapping a NodeNot).
	NodeAtom NodeKind = iota
	// NodeNot negates a parenthesized sub-expression.
	NodeNot
	NodeAnd
	NodeOr
)

// Node is one vertex of a parsed expression. Trees are immutable after
// Parse, so a compiled expression can be shared across goroutines.
type Node struct {
	Kind    NodeKind
	Name    string // NodeAtom
	Negated bool   // NodeAtom: '!' applied directly to this atom
	Left    *Node  // NodeNot operand; NodeAnd/NodeOr left side
	Right   *Node  // NodeAnd/NodeOr right side
}

// String renders the canonical fully-parenthesized form, handy in tests
// and notices.
func (n *Node) String() string {
	var b strings.Builder
	n.render(&b)
	return b.String()
}

func (n *Node) render(b *strings.Builder) {
	switch n.Kind {
	case NodeAtom:
		if n.Negated {
			b.WriteByte('!')
		}
		b.WriteString(n.Name)
	case NodeNot:
		b.WriteString("!(")
		n.Left.render(b)
		b.WriteByte(')')
	case NodeAnd, NodeOr:
		b.WriteByte('(')
		n.Left.render(b)
		if n.Kind == NodeAnd {
			b.WriteString(" && ")
		} else {
			b.WriteString(" || ")
		}
		n.Right.render(b)
		b.WriteByte(')')
	}
}

// Deps lists every referenced tag in first-occurrence order, deduplicated.
// A tag is rendered with a '!' prefix only when the negation applies
// directly to the atom; atoms inside a negated sub-expression stay plain.
func (n *Node) Deps() []string {
	var out []string
	seen := make(map[string]bool)
	n.deps(&out, seen)
	return out
}

func (n *Node) deps(out *[]string, seen map[string]bool) {
	switch n.Kind {
	case NodeAtom:
		name := n.Name
		if n.Negated {
			name = "!" + name
		}
		if !seen[name] {
			seen[name] = true
			*out = append(*out, name)
		}
	case NodeNot:
		n.Left.deps(out, seen)
	case NodeAnd, NodeOr:
		n.Left.deps(out, seen)
		n.Right.deps(out, seen)
	}
}

// Weight scores how elaborate the expression is: atoms cost 1, each '!'
// costs 1, each binary operator costs 2. Adding an atom or operator never
// lowers the score.
func (n *Node) Weight() int {
	switch n.Kind {
	case NodeAtom:
		if n.Negated {
			return 2
		}
		return 1
	case NodeNot:
		return 1 + n.Left.Weight()
	case NodeAnd, NodeOr:
		return 2 + n.Left.Weight() + n.Right.Weight()
	}
	return 0
}
