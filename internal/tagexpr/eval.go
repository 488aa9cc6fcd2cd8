package tagexpr

// Result is the outcome of evaluating one expression against a tag set.
// Matched lists the tags that were positively observed while evaluating:
// every atom visited whose tag is present in the set, in first-visit
// order. Short-circuiting means atoms after a decided '&&'/'||' are never
// visited; absent tags never appear, even under negation.
type Result struct {
	Value   bool
	Matched []string
}

// Eval evaluates the tree against a tag set. Tags absent from the map (or
// mapped to false) count as not present; unknown tags are simply false.
func (n *Node) Eval(tags map[string]bool) Result {
	c := collector{seen: make(map[string]bool)}
	v := n.eval(tags, &c)
	return Result{Value: v, Matched: c.names}
}

type collector struct {
	names []string
	seen  map[string]bool
}

func (c *collector) observe(name string) {
	if c.seen[name] {
		return
	}
	c.seen[name] = true
	c.names = append(c.names, name)
}

func (n *Node) eval(tags map[string]bool, c *collector) bool {
	switch n.Kind {
	case NodeAtom:
		present := tags[n.Name]
		if present {
			c.observe(n.Name)
		}
		if n.Negated {
			return !present
		}
		return present

	case NodeNot:
		return !n.Left.eval(tags, c)

	case NodeAnd:
		if !n.Left.eval(tags, c) {
			return false
		}
		return n.Right.eval(tags, c)

	case NodeOr:
		if n.Left.eval(tags, c) {
			return true
		}
		return n.Right.eval(tags, c)
	}
	return false
}
