package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taglint/internal/tagexpr"
)

var exprCmd = &cobra.Command{
	Use:   "expr [flags] <expression>",
	Short: "Validate and inspect a tag expression",
	Long: `Parse a boolean tag expression, report its dependencies and
complexity, and optionally evaluate it against a comma-separated tag
set given with --tags.`,
	Args: cobra.ExactArgs(1),
	RunE: runExpr,
}

func init() {
	exprCmd.Flags().String("tags", "", "comma-separated tags to evaluate the expression against")
	exprCmd.Flags().Bool("json", false, "emit JSON instead of text")
}

type exprReport struct {
	Expression string   `json:"expression"`
	Normalized string   `json:"normalized"`
	DependsOn  []string `json:"depends_on"`
	Complexity int      `json:"complexity"`
	Evaluated  bool     `json:"evaluated"`
	Value      bool     `json:"value,omitempty"`
	Matched    []string `json:"matched,omitempty"`
}

func runExpr(cmd *cobra.Command, args []string) error {
	tagsStr, err := cmd.Flags().GetString("tags")
	if err != nil {
		return fmt.Errorf("failed to get tags flag: %w", err)
	}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}

	expr := args[0]
	ev := tagexpr.NewEvaluator(tagexpr.DefaultCacheSize)

	node, err := ev.Compile(expr)
	if err != nil {
		return fmt.Errorf("invalid expression: %w", err)
	}

	out := exprReport{
		Expression: expr,
		Normalized: node.String(),
		DependsOn:  node.Deps(),
		Complexity: node.Weight(),
	}

	if cmd.Flags().Changed("tags") {
		tags := make(map[string]bool)
		for _, name := range strings.Split(tagsStr, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if !tagexpr.ValidTagName(name) {
				return fmt.Errorf("invalid tag name %q", name)
			}
			tags[name] = true
		}
		res := node.Eval(tags)
		out.Evaluated = true
		out.Value = res.Value
		out.Matched = res.Matched
	}

	if jsonOut {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	fmt.Fprintf(os.Stdout, "expression: %s\n", out.Normalized)
	fmt.Fprintf(os.Stdout, "depends on: %s\n", strings.Join(out.DependsOn, ", "))
	fmt.Fprintf(os.Stdout, "complexity: %d\n", out.Complexity)
	if out.Evaluated {
		fmt.Fprintf(os.Stdout, "value:      %v\n", out.Value)
		if len(out.Matched) > 0 {
			fmt.Fprintf(os.Stdout, "matched:    %s\n", strings.Join(out.Matched, ", "))
		}
	}
	return nil
}
