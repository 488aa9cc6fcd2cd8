package driver

import (
	"runtime"
	"sync"

	"taglint/internal/diag"
	"taglint/internal/extract"
	"taglint/internal/javaparse"
	"taglint/internal/registry"
	"taglint/internal/rules"
	"taglint/internal/tagexpr"
)

// Config controls a single analysis run.
type Config struct {
	// TagsPath points at a tag catalog (.toml/.yaml/.yml). Empty means
	// the built-in catalog.
	TagsPath string
	// RulesPath points at a rule catalog. Empty means the built-in set.
	RulesPath string

	// Jobs caps the number of files analyzed concurrently. Zero or
	// negative means GOMAXPROCS.
	Jobs int

	// SkipUntagged makes rules with empty conditions count as skipped
	// instead of firing on every file.
	SkipUntagged bool

	// NoSyntax disables tree-sitter parsing; metric and node detectors
	// are silently skipped and only pattern, contextual and fallback
	// tiers run.
	NoSyntax bool

	// NoCache disables both the in-memory and on-disk profile caches.
	NoCache bool
	// CacheDir overrides the default disk cache location. Empty picks
	// the XDG cache directory.
	CacheDir string

	// Include and Exclude filter discovered files by doublestar globs
	// matched against the slashed path relative to the analyzed root.
	Include []string
	Exclude []string
	// RespectGitignore drops files matched by the root's .gitignore.
	RespectGitignore bool

	// MaxNotices caps the per-file diagnostic bag. Zero picks a default
	// of 128.
	MaxNotices int
}

// Driver wires the catalogs, extractor, matcher and caches together
// and runs them over files. A Driver is safe for concurrent use; the
// tree-sitter parsers it pools are not, so each analysis borrows one.
type Driver struct {
	cfg Config

	reg     *registry.Registry
	catalog *rules.Catalog
	eval    *tagexpr.Evaluator
	extr    *extract.Extractor
	matcher *rules.Matcher

	mem     *profileCache
	disk    *DiskCache
	parsers sync.Pool

	progress Sink
}

// New builds a Driver from cfg. Catalog paths that fail to load fall
// back to the built-in catalogs with a notice in rep; a disk cache
// that cannot be opened degrades to memory-only the same way.
func New(cfg Config, rep diag.Reporter) (*Driver, error) {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.GOMAXPROCS(0)
	}

	reg := loadRegistry(cfg.TagsPath, rep)
	catalog := loadRules(cfg.RulesPath, rep)

	eval := tagexpr.NewEvaluator(tagexpr.DefaultCacheSize)

	d := &Driver{
		cfg:     cfg,
		reg:     reg,
		catalog: catalog,
		eval:    eval,
		extr:    extract.New(reg),
		matcher: rules.NewMatcher(eval),
	}
	d.parsers.New = func() any { return javaparse.NewParser() }

	if !cfg.NoCache {
		d.mem = newProfileCache(256)
		disk, err := openDisk(cfg.CacheDir)
		if err != nil {
			diag.Warnf(rep, diag.IOLoadFileError, "", "", "disk profile cache disabled: %v", err)
		} else {
			d.disk = disk
		}
	}

	return d, nil
}

// SetProgress installs a sink for per-file lifecycle events. Pass nil
// to silence them.
func (d *Driver) SetProgress(s Sink) { d.progress = s }

// Registry exposes the loaded tag catalog, mostly for the CLI's
// catalog listing commands.
func (d *Driver) Registry() *registry.Registry { return d.reg }

// Rules exposes the loaded rule catalog.
func (d *Driver) Rules() *rules.Catalog { return d.catalog }

func loadRegistry(path string, rep diag.Reporter) *registry.Registry {
	if path == "" {
		return registry.Builtin()
	}
	reg, err := registry.Load(path, rep)
	if err != nil {
		diag.Warnf(rep, diag.IOLoadFileError, path, "", "tag catalog unusable, falling back to built-ins: %v", err)
		return registry.Builtin()
	}
	return reg
}

func loadRules(path string, rep diag.Reporter) *rules.Catalog {
	if path == "" {
		return rules.Builtin()
	}
	cat, err := rules.Load(path, rep)
	if err != nil {
		diag.Warnf(rep, diag.IOLoadFileError, path, "", "rule catalog unusable, falling back to built-ins: %v", err)
		return rules.Builtin()
	}
	return cat
}

func openDisk(dir string) (*DiskCache, error) {
	if dir != "" {
		return OpenDiskCacheAt(dir)
	}
	return OpenDiskCache("taglint")
}

// borrowParser hands out a pooled parser. Parsers are not concurrent
// safe; every analysis borrows one for its whole file and returns it.
func (d *Driver) borrowParser() *javaparse.Parser {
	p, _ := d.parsers.Get().(*javaparse.Parser)
	return p
}

func (d *Driver) returnParser(p *javaparse.Parser) {
	if p != nil {
		d.parsers.Put(p)
	}
}
