// Package javaparse derives structural summaries from Java source
// using tree-sitter. The engine core never imports it; the driver
// feeds its summaries to the extractor's metric and node tiers and
// falls back to text heuristics when parsing fails.
package javaparse

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"taglint/internal/syntax"
)

// Parser wraps a tree-sitter parser configured for Java. It is not
// safe for concurrent use; create one per worker.
type Parser struct {
	parser *sitter.Parser
}

func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	return &Parser{parser: p}
}

// Summarize parses the source and counts the structural facts the
// metric and node detectors compare against. Tree-sitter recovers from
// malformed input, so an error only means the parse itself could not
// run (for example a canceled context).
func (p *Parser) Summarize(ctx context.Context, content []byte) (*syntax.Summary, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse java: %w", err)
	}
	if tree == nil {
		return nil, errors.New("parse java: no tree produced")
	}
	defer tree.Close()

	root := tree.RootNode()
	sum := &syntax.Summary{Complexity: 1, LineCount: lineCount(root, content)}

	w := &walker{content: content, sum: sum}
	w.walk(root, 0, 0)
	return sum, nil
}

// lineCount reads the line total off the root node's end point. A file
// ending in a newline ends at column zero of the row after its last
// line, so that row index is already the count.
func lineCount(root *sitter.Node, content []byte) int {
	if len(content) == 0 {
		return 0
	}
	end := root.EndPoint()
	lines, err := safecast.Conv[int](end.Row)
	if err != nil {
		return 0
	}
	if end.Column != 0 {
		lines++
	}
	return lines
}

type walker struct {
	content []byte
	sum     *syntax.Summary
}

func (w *walker) walk(n *sitter.Node, controlDepth, loopDepth int) {
	switch n.Type() {
	case "method_declaration", "constructor_declaration":
		w.sum.MethodCount++

	case "for_statement", "enhanced_for_statement", "while_statement", "do_statement":
		w.sum.HasLoop = true
		loopDepth++
		if loopDepth > 1 {
			w.sum.HasNestedLoop = true
		}
		w.sum.Complexity++
		controlDepth = w.deepen(controlDepth)

	case "if_statement":
		w.sum.Complexity++
		controlDepth = w.deepen(controlDepth)

	case "switch_expression", "switch_statement",
		"try_statement", "try_with_resources_statement":
		controlDepth = w.deepen(controlDepth)

	case "catch_clause", "ternary_expression":
		w.sum.Complexity++

	case "switch_label":
		if !bytes.HasPrefix(w.text(n), []byte("default")) {
			w.sum.Complexity++
		}

	case "binary_expression":
		if op := n.ChildByFieldName("operator"); op != nil {
			switch string(w.text(op)) {
			case "&&", "||":
				w.sum.Complexity++
			}
		}
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.walk(n.NamedChild(i), controlDepth, loopDepth)
	}
}

func (w *walker) deepen(depth int) int {
	depth++
	if depth > w.sum.MaxNesting {
		w.sum.MaxNesting = depth
	}
	return depth
}

func (w *walker) text(n *sitter.Node) []byte {
	return w.content[n.StartByte():n.EndByte()]
}
