// Package project locates and loads the taglint.toml manifest that
// marks a project root and carries analyze defaults.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file that marks a project root.
const ManifestName = "taglint.toml"

// Manifest is a loaded taglint.toml together with where it was found.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Project ProjectSection `toml:"project"`
	Analyze AnalyzeSection `toml:"analyze"`
}

type ProjectSection struct {
	Name string `toml:"name"`
}

// AnalyzeSection mirrors the analyze command flags; everything is
// optional and explicit flags win over manifest values.
type AnalyzeSection struct {
	Path             string   `toml:"path"`
	Tags             string   `toml:"tags"`
	Rules            string   `toml:"rules"`
	FailOn           string   `toml:"fail_on"`
	Jobs             int      `toml:"jobs"`
	Include          []string `toml:"include"`
	Exclude          []string `toml:"exclude"`
	RespectGitignore bool     `toml:"respect_gitignore"`
	SkipUntagged     bool     `toml:"skip_untagged"`
}

// Find walks up from startDir to locate taglint.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds the nearest manifest above startDir and parses it. The
// second return reports whether a manifest exists at all; a manifest
// that exists but does not parse is an error.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses one manifest file. [project].name is the only
// required field: it is what distinguishes a real manifest from a
// stray file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return Config{}, fmt.Errorf("%s: missing [project]", path)
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [project].name", path)
	}
	return cfg, nil
}

// ResolvePath anchors a manifest-relative path at the manifest root.
// Absolute paths and empty values pass through untouched.
func (m *Manifest) ResolvePath(rel string) string {
	rel = strings.TrimSpace(rel)
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}

// Default renders the minimal manifest written by taglint init. The
// [analyze] extras stay commented out so the defaults remain visible
// without being pinned.
func Default(name string, catalogs bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `# taglint project manifest
[project]
name = "%s"

[analyze]
path = "."
`, name)
	if catalogs {
		b.WriteString(`tags = "tags.toml"
rules = "rules.toml"
`)
	}
	b.WriteString(`# fail_on = "HIGH"
# jobs = 0
# include = ["src/**"]
# exclude = ["**/generated/**"]
# respect_gitignore = true
# skip_untagged = false
`)
	return b.String()
}
