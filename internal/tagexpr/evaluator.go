package tagexpr

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the compiled-expression cache. Rule catalogs are
// typically well under a hundred conditions, so the default leaves room for
// several catalogs at once.
const DefaultCacheSize = 512

type compiled struct {
	node *Node
	err  error
}

// Evaluator compiles expressions once and answers every operation off the
// cached tree. It holds no other state; one instance serves a whole run
// concurrently (the cache is internally locked, trees are immutable).
type Evaluator struct {
	cache *lru.Cache[string, compiled]
}

// NewEvaluator builds an evaluator with an LRU of the given size;
// non-positive sizes fall back to DefaultCacheSize.
func NewEvaluator(size int) *Evaluator {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, compiled](size)
	if err != nil {
		panic(fmt.Errorf("expression cache: %w", err))
	}
	return &Evaluator{cache: cache}
}

// Compile parses expr, memoizing both successes and failures. The returned
// tree must be treated as read-only.
func (e *Evaluator) Compile(expr string) (*Node, error) {
	if c, ok := e.cache.Get(expr); ok {
		return c.node, c.err
	}
	node, err := Parse(expr)
	e.cache.Add(expr, compiled{node: node, err: err})
	return node, err
}

// Evaluate compiles expr and evaluates it against the tag set.
func (e *Evaluator) Evaluate(expr string, tags map[string]bool) (Result, error) {
	node, err := e.Compile(expr)
	if err != nil {
		return Result{}, err
	}
	return node.Eval(tags), nil
}

// DependsOn lists the tags expr references, '!'-prefixed for direct
// negations, in first-occurrence order.
func (e *Evaluator) DependsOn(expr string) ([]string, error) {
	node, err := e.Compile(expr)
	if err != nil {
		return nil, err
	}
	return node.Deps(), nil
}

// Validate checks syntax only. Unknown tag names are fine; they evaluate
// to false at match time.
func (e *Evaluator) Validate(expr string) error {
	_, err := e.Compile(expr)
	return err
}

// Complexity scores expr; see Node.Weight for the cost table.
func (e *Evaluator) Complexity(expr string) (int, error) {
	node, err := e.Compile(expr)
	if err != nil {
		return 0, err
	}
	return node.Weight(), nil
}

// Len reports how many compiled expressions the cache currently holds.
func (e *Evaluator) Len() int {
	return e.cache.Len()
}
