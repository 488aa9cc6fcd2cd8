package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taglint/internal/diag"
	"taglint/internal/rules"
	"taglint/internal/tagexpr"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [flags]",
	Short: "List the rule catalog",
	Long: `List every rule with its severity, category and condition. Conditions
are checked against the expression grammar; broken ones are marked, and
--check turns any broken condition into a failing exit code.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().String("rules", "", "rule catalog path (.toml|.yaml|.yml), empty uses the built-in set")
	rulesCmd.Flags().Bool("json", false, "emit JSON instead of text")
	rulesCmd.Flags().Bool("check", false, "exit non-zero when any rule condition fails to parse")
}

type ruleJSON struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category,omitempty"`
	Severity   string `json:"severity"`
	Condition  string `json:"condition"`
	Suggestion string `json:"suggestion,omitempty"`
	Valid      bool   `json:"valid"`
}

func runRules(cmd *cobra.Command, args []string) error {
	rulesPath, err := cmd.Flags().GetString("rules")
	if err != nil {
		return fmt.Errorf("failed to get rules flag: %w", err)
	}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return fmt.Errorf("failed to get check flag: %w", err)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	maxNotices, err := cmd.Root().PersistentFlags().GetInt("max-notices")
	if err != nil {
		return fmt.Errorf("failed to get max-notices flag: %w", err)
	}

	bag := diag.NewBag(maxNotices)
	catalog := rules.Builtin()
	if rulesPath != "" {
		catalog, err = rules.Load(rulesPath, diag.BagReporter{Bag: bag})
		if err != nil {
			return fmt.Errorf("failed to load rule catalog: %w", err)
		}
	}

	ev := tagexpr.NewEvaluator(tagexpr.DefaultCacheSize)
	broken := 0

	if jsonOut {
		out := make([]ruleJSON, 0, len(catalog.Rules))
		for i := range catalog.Rules {
			r := &catalog.Rules[i]
			valid := r.Condition == "" || ev.Validate(r.Condition) == nil
			if !valid {
				broken++
			}
			out = append(out, ruleJSON{
				ID:         r.ID,
				Title:      r.Title,
				Category:   r.Category,
				Severity:   r.Severity.String(),
				Condition:  r.Condition,
				Suggestion: r.Suggestion,
				Valid:      valid,
			})
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(os.Stdout, "rules (%d):\n", len(catalog.Rules))
		for i := range catalog.Rules {
			r := &catalog.Rules[i]
			marker := " "
			if r.Condition != "" && ev.Validate(r.Condition) != nil {
				marker = "!"
				broken++
			}
			fmt.Fprintf(os.Stdout, "%s %-10s %-8s %-24s %s\n", marker, r.ID, r.Severity.String(), r.Title, r.Condition)
		}
	}

	if !quiet {
		if text := diag.FormatNotices(bag.Items()); text != "" {
			fmt.Fprintln(os.Stderr, text)
		}
	}

	// A broken condition is bad input, not an engine failure; it fails
	// the run through the exit code, same as a violation would.
	if check && broken > 0 {
		fmt.Fprintf(os.Stderr, "%d rule conditions failed to parse\n", broken)
		exitCode = 1
	}
	return nil
}
