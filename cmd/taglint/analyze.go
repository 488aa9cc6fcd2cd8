package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"taglint/internal/diag"
	"taglint/internal/driver"
	"taglint/internal/project"
	"taglint/internal/report"
	"taglint/internal/rules"
	"taglint/internal/version"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] [path]",
	Short: "Analyze Java sources and report rule violations",
	Long: `Extract semantic tags from a Java file or every .java file under a
directory, resolve compound tags and match rule conditions against the
result. Without a path the analyzed root comes from taglint.toml or
defaults to the current directory; "-" reads one source from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

// init registers CLI flags for the analyze command used by runAnalyze.
// It configures output format, the fail-on policy, catalog overrides,
// discovery filters, caching and the progress UI.
func init() {
	analyzeCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	analyzeCmd.Flags().String("fail-on", "HIGH", "minimum violation severity that fails the run (LOW|MEDIUM|HIGH|CRITICAL)")
	analyzeCmd.Flags().String("tags", "", "tag catalog path (.toml|.yaml|.yml), empty uses the built-in catalog")
	analyzeCmd.Flags().String("rules", "", "rule catalog path (.toml|.yaml|.yml), empty uses the built-in set")
	analyzeCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	analyzeCmd.Flags().Bool("no-syntax", false, "skip syntax parsing; metric and node detectors are disabled")
	analyzeCmd.Flags().Bool("no-cache", false, "disable the memory and disk profile caches")
	analyzeCmd.Flags().String("cache-dir", "", "override the disk cache directory")
	analyzeCmd.Flags().StringSlice("include", nil, "glob patterns files must match, relative to the root")
	analyzeCmd.Flags().StringSlice("exclude", nil, "glob patterns that drop files")
	analyzeCmd.Flags().Bool("respect-gitignore", false, "skip files matched by the root .gitignore")
	analyzeCmd.Flags().Bool("skip-untagged", false, "count rules with empty conditions as skipped instead of matching every file")
	analyzeCmd.Flags().Bool("show-tags", true, "print matched tags under each violation")
	analyzeCmd.Flags().Bool("suggest", false, "print rule suggestions under violations")
	analyzeCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	analyzeCmd.Flags().String("ui", "auto", "progress UI for directory runs (auto|on|off)")
	analyzeCmd.Flags().Bool("watch", false, "re-analyze on file changes until interrupted")
}

// runAnalyze executes the "analyze" command: it resolves the target and
// manifest defaults, runs the driver over the target, renders the chosen
// format to stdout and records the fail-on verdict in the process exit
// code. Engine notices go to stderr unless --quiet is set.
func runAnalyze(cmd *cobra.Command, args []string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	failOnStr, err := cmd.Flags().GetString("fail-on")
	if err != nil {
		return fmt.Errorf("failed to get fail-on flag: %w", err)
	}

	tagsPath, err := cmd.Flags().GetString("tags")
	if err != nil {
		return fmt.Errorf("failed to get tags flag: %w", err)
	}

	rulesPath, err := cmd.Flags().GetString("rules")
	if err != nil {
		return fmt.Errorf("failed to get rules flag: %w", err)
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	noSyntax, err := cmd.Flags().GetBool("no-syntax")
	if err != nil {
		return fmt.Errorf("failed to get no-syntax flag: %w", err)
	}

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	cacheDir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return fmt.Errorf("failed to get cache-dir flag: %w", err)
	}

	include, err := cmd.Flags().GetStringSlice("include")
	if err != nil {
		return fmt.Errorf("failed to get include flag: %w", err)
	}

	exclude, err := cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return fmt.Errorf("failed to get exclude flag: %w", err)
	}

	respectGitignore, err := cmd.Flags().GetBool("respect-gitignore")
	if err != nil {
		return fmt.Errorf("failed to get respect-gitignore flag: %w", err)
	}

	skipUntagged, err := cmd.Flags().GetBool("skip-untagged")
	if err != nil {
		return fmt.Errorf("failed to get skip-untagged flag: %w", err)
	}

	showTags, err := cmd.Flags().GetBool("show-tags")
	if err != nil {
		return fmt.Errorf("failed to get show-tags flag: %w", err)
	}

	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}

	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}

	watchMode, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("failed to get watch flag: %w", err)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	maxNotices, err := cmd.Root().PersistentFlags().GetInt("max-notices")
	if err != nil {
		return fmt.Errorf("failed to get max-notices flag: %w", err)
	}

	useColor, err := resolveColor(cmd)
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	failOn, ok := rules.ParseSeverity(failOnStr)
	if !ok {
		return fmt.Errorf("invalid --fail-on value %q (expected LOW|MEDIUM|HIGH|CRITICAL)", failOnStr)
	}

	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// The manifest search starts at the explicit target so analyzing
	// another project picks up that project's taglint.toml.
	root := "."
	explicit := len(args) == 1
	if explicit {
		root = args[0]
	}
	stdinMode := explicit && root == "-"
	manifestStart := root
	switch {
	case stdinMode:
		manifestStart = "."
	case explicit:
		if st, statErr := os.Stat(root); statErr == nil && !st.IsDir() {
			manifestStart = filepath.Dir(root)
		}
	}
	manifest, manifestFound, err := project.Load(manifestStart)
	if err != nil {
		return err
	}
	if manifestFound {
		an := manifest.Config.Analyze
		flags := cmd.Flags()
		if !explicit && an.Path != "" {
			root = manifest.ResolvePath(an.Path)
		}
		if !flags.Changed("tags") && an.Tags != "" {
			tagsPath = manifest.ResolvePath(an.Tags)
		}
		if !flags.Changed("rules") && an.Rules != "" {
			rulesPath = manifest.ResolvePath(an.Rules)
		}
		if !flags.Changed("fail-on") && an.FailOn != "" {
			failOn, ok = rules.ParseSeverity(an.FailOn)
			if !ok {
				return fmt.Errorf("%s: invalid fail_on value %q", manifest.Path, an.FailOn)
			}
		}
		if !flags.Changed("jobs") && an.Jobs > 0 {
			jobs = an.Jobs
		}
		if !flags.Changed("include") && len(an.Include) > 0 {
			include = an.Include
		}
		if !flags.Changed("exclude") && len(an.Exclude) > 0 {
			exclude = an.Exclude
		}
		if !flags.Changed("respect-gitignore") && an.RespectGitignore {
			respectGitignore = true
		}
		if !flags.Changed("skip-untagged") && an.SkipUntagged {
			skipUntagged = true
		}
	}

	var st os.FileInfo
	if !stdinMode {
		st, err = os.Stat(root)
		if err != nil {
			return fmt.Errorf("failed to stat path: %w", err)
		}
	}

	loadBag := diag.NewBag(maxNotices)
	d, err := driver.New(driver.Config{
		TagsPath:         tagsPath,
		RulesPath:        rulesPath,
		Jobs:             jobs,
		SkipUntagged:     skipUntagged,
		NoSyntax:         noSyntax,
		NoCache:          noCache,
		CacheDir:         cacheDir,
		Include:          include,
		Exclude:          exclude,
		RespectGitignore: respectGitignore,
		MaxNotices:       maxNotices,
	}, diag.BagReporter{Bag: loadBag})
	if err != nil {
		return fmt.Errorf("failed to build analyzer: %w", err)
	}

	renderOpts := report.Options{
		Format:          format,
		Color:           useColor,
		ShowTags:        showTags,
		ShowSuggestions: suggest,
		FullPath:        fullPath,
		Meta: report.Meta{
			ToolName:    "taglint",
			ToolVersion: version.Version,
			Args:        os.Args[1:],
		},
	}

	if watchMode {
		if stdinMode || !st.IsDir() {
			return fmt.Errorf("--watch requires a directory")
		}
		return runAnalyzeWatch(cmd.Context(), d, root, renderOpts, loadBag, failOn, quiet)
	}

	var run *driver.RunResult
	switch {
	case stdinMode:
		content, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			return fmt.Errorf("failed to read stdin: %w", readErr)
		}
		run = d.AnalyzeBuffer(cmd.Context(), "<stdin>", content)
	case st.IsDir() && shouldUseTUI(mode):
		run, err = runAnalyzeWithUI(cmd.Context(), "analyzing "+root, root, d)
	case st.IsDir():
		run, err = d.AnalyzeDir(cmd.Context(), root)
	default:
		run, err = d.AnalyzeOne(cmd.Context(), root)
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if err := report.Render(os.Stdout, run, d.Rules(), renderOpts); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if !quiet {
		printRunNotices(os.Stderr, loadBag, run)
	}
	if showTimings {
		printTimings(os.Stderr, run.Timings)
	}

	exitCode = report.ExitCode(run, failOn)
	return nil
}

// runAnalyzeWatch keeps re-analyzing root until interrupted. Each pass
// renders a fresh report; notices deduplicate across passes so the same
// catalog warning does not pile up every save.
func runAnalyzeWatch(ctx context.Context, d *driver.Driver, root string, opts report.Options, loadBag *diag.Bag, failOn rules.Severity, quiet bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var printer diag.Reporter = noticePrinter{w: os.Stderr}
	if quiet {
		printer = diag.NopReporter{}
	}
	dedup := diag.NewDedupReporter(printer)
	for _, n := range loadBag.Items() {
		dedup.Report(n)
	}

	err := d.Watch(ctx, root, func(run *driver.RunResult) {
		if renderErr := report.Render(os.Stdout, run, d.Rules(), opts); renderErr != nil {
			fmt.Fprintf(os.Stderr, "failed to render report: %v\n", renderErr)
		}
		for i := range run.Files {
			for _, n := range run.Files[i].Notices {
				dedup.Report(n)
			}
		}
		exitCode = report.ExitCode(run, failOn)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

// noticePrinter writes each notice straight to w, one line apiece.
type noticePrinter struct{ w io.Writer }

func (p noticePrinter) Report(n diag.Notice) {
	fmt.Fprintln(p.w, diag.FormatNotice(n))
}

// printRunNotices flushes catalog-load notices and every per-file notice
// from the run to w in the stable sorted order.
func printRunNotices(w io.Writer, loadBag *diag.Bag, run *driver.RunResult) {
	notices := append([]diag.Notice(nil), loadBag.Items()...)
	for i := range run.Files {
		notices = append(notices, run.Files[i].Notices...)
	}
	if text := diag.FormatNotices(notices); text != "" {
		fmt.Fprintln(w, text)
	}
}
