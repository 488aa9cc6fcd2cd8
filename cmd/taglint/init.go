package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"taglint/internal/project"
	"taglint/internal/registry"
	"taglint/internal/rules"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a taglint project",
	Long: `Initialize a taglint project by creating a project manifest
(taglint.toml). If [path|name] is omitted, initializes the current
directory. If a non-existing name is provided, a directory will be
created. With --catalogs the built-in tag and rule catalogs are written
next to the manifest as a starting point for customization. Existing
files are never touched unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("catalogs", false, "also export the built-in catalogs as tags.toml and rules.toml")
	initCmd.Flags().Bool("force", false, "overwrite an existing manifest and catalogs")
}

// runInit creates taglint.toml at the target path (or the current
// working directory when no argument or "." is provided). It derives a
// project name from the directory basename and refuses to initialize
// when a manifest already exists.
func runInit(cmd *cobra.Command, args []string) error {
	exportCatalogs, err := cmd.Flags().GetBool("catalogs")
	if err != nil {
		return fmt.Errorf("failed to get catalogs flag: %w", err)
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}

	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := filepath.Base(target)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "taglint-project"
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil && !force {
		return fmt.Errorf("project already initialized: %s exists (use --force to overwrite)", manifestPath)
	}

	manifest := project.Default(name, exportCatalogs)
	if err := os.WriteFile(manifestPath, []byte(manifest), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	created := []string{project.ManifestName}
	if exportCatalogs {
		if err := writeCatalog(filepath.Join(target, "tags.toml"), registry.BuiltinTOML(), force); err != nil {
			return err
		}
		if err := writeCatalog(filepath.Join(target, "rules.toml"), rules.BuiltinTOML(), force); err != nil {
			return err
		}
		created = append(created, "tags.toml", "rules.toml")
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized taglint project in %s\n", rel)
	for _, f := range created {
		fmt.Fprintf(os.Stdout, "  - %s\n", f)
	}
	return nil
}

func writeCatalog(path string, data []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("refusing to overwrite %s (use --force)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
