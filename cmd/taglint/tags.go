package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taglint/internal/diag"
	"taglint/internal/driver"
	"taglint/internal/extract"
	"taglint/internal/registry"
)

var tagsCmd = &cobra.Command{
	Use:   "tags [flags] [file.java]",
	Short: "List the tag catalog or show the tags extracted from a file",
	Long: `Without arguments, list every tag and compound definition in the
catalog. With a Java file, extract its profile and print each tag with
its source tier, confidence and evidence.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTags,
}

func init() {
	tagsCmd.Flags().String("tags", "", "tag catalog path (.toml|.yaml|.yml), empty uses the built-in catalog")
	tagsCmd.Flags().Bool("json", false, "emit JSON instead of text")
	tagsCmd.Flags().Bool("no-syntax", false, "skip syntax parsing; metric and node detectors are disabled")
}

func runTags(cmd *cobra.Command, args []string) error {
	tagsPath, err := cmd.Flags().GetString("tags")
	if err != nil {
		return fmt.Errorf("failed to get tags flag: %w", err)
	}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}

	noSyntax, err := cmd.Flags().GetBool("no-syntax")
	if err != nil {
		return fmt.Errorf("failed to get no-syntax flag: %w", err)
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
	d, err := driver.New(driver.Config{
		TagsPath:   tagsPath,
		NoSyntax:   noSyntax,
		NoCache:    true,
		MaxNotices: maxNotices,
	}, diag.BagReporter{Bag: bag})
	if err != nil {
		return fmt.Errorf("failed to build analyzer: %w", err)
	}

	if len(args) == 0 {
		err = printCatalog(os.Stdout, d.Registry(), jsonOut)
	} else {
		err = printFileTags(cmd, d, args[0], jsonOut)
	}
	if err != nil {
		return err
	}

	if !quiet {
		if text := diag.FormatNotices(bag.Items()); text != "" {
			fmt.Fprintln(os.Stderr, text)
		}
	}
	return nil
}

type catalogTagJSON struct {
	Name     string `json:"name"`
	Detect   string `json:"detect"`
	Category string `json:"category,omitempty"`
}

type catalogCompoundJSON struct {
	Name        string `json:"name"`
	Expression  string `json:"expression"`
	Severity    string `json:"severity,omitempty"`
	Description string `json:"description,omitempty"`
}

type catalogJSON struct {
	Tags      []catalogTagJSON      `json:"tags"`
	Compounds []catalogCompoundJSON `json:"compounds"`
}

func printCatalog(w *os.File, reg *registry.Registry, jsonOut bool) error {
	if jsonOut {
		out := catalogJSON{
			Tags:      make([]catalogTagJSON, 0, len(reg.Tags)),
			Compounds: make([]catalogCompoundJSON, 0, len(reg.Compounds)),
		}
		for i := range reg.Tags {
			t := &reg.Tags[i]
			out.Tags = append(out.Tags, catalogTagJSON{Name: t.Name, Detect: t.Detect.String(), Category: t.Category})
		}
		for i := range reg.Compounds {
			c := &reg.Compounds[i]
			out.Compounds = append(out.Compounds, catalogCompoundJSON{
				Name:        c.Name,
				Expression:  c.Expression,
				Severity:    c.Severity,
				Description: c.Description,
			})
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	fmt.Fprintf(w, "tags (%d):\n", len(reg.Tags))
	for i := range reg.Tags {
		t := &reg.Tags[i]
		fmt.Fprintf(w, "  %-32s %-11s %s\n", t.Name, t.Detect.String(), t.Category)
	}
	fmt.Fprintf(w, "compounds (%d):\n", len(reg.Compounds))
	for i := range reg.Compounds {
		c := &reg.Compounds[i]
		fmt.Fprintf(w, "  %-32s %s\n", c.Name, c.Expression)
	}
	return nil
}

type fileTagsJSON struct {
	File      string                        `json:"file"`
	Tags      map[string]extract.Provenance `json:"tags"`
	Compounds []fileCompoundJSON            `json:"compounds,omitempty"`
}

type fileCompoundJSON struct {
	Name       string   `json:"name"`
	Expression string   `json:"expression"`
	Added      bool     `json:"added"`
	Matched    []string `json:"matched,omitempty"`
}

func printFileTags(cmd *cobra.Command, d *driver.Driver, path string, jsonOut bool) error {
	res, err := d.AnalyzeFile(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if jsonOut {
		out := fileTagsJSON{
			File: path,
			Tags: res.Profile.Tags,
		}
		for _, c := range res.Compounds {
			out.Compounds = append(out.Compounds, fileCompoundJSON{
				Name:       c.Name,
				Expression: c.Expression,
				Added:      c.Added,
				Matched:    c.Matched,
			})
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	fmt.Fprintf(os.Stdout, "%s: %d tags\n", path, res.Profile.Len())
	for _, name := range res.Profile.Names() {
		prov, _ := res.Profile.Get(name)
		line := fmt.Sprintf("  %-32s %-11s conf=%.2f", name, prov.Source.String(), prov.Confidence)
		if len(prov.Evidence) > 0 {
			line += "  " + strings.Join(prov.Evidence, "; ")
		}
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}
