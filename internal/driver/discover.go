package driver

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
)

// skipDirs are build output, dependency and VCS directories that never
// hold project sources worth linting.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"target":       true,
	"build":        true,
	"out":          true,
	"bin":          true,
	"classes":      true,
	"node_modules": true,
	"vendor":       true,
	".gradle":      true,
	".mvn":         true,
	".idea":        true,
	".settings":    true,
	"test-output":  true,
}

// fileFilter decides which files under a root take part in a run. The
// include/exclude globs and .gitignore rules all match the slashed
// path relative to the root.
type fileFilter struct {
	root    string
	include []string
	exclude []string
	ignore  *gitignore.GitIgnore
}

func (d *Driver) newFileFilter(root string) *fileFilter {
	f := &fileFilter{
		root:    root,
		include: d.cfg.Include,
		exclude: d.cfg.Exclude,
	}
	if d.cfg.RespectGitignore {
		// A missing or unreadable .gitignore just means nothing extra
		// is ignored.
		if m, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			f.ignore = m
		}
	}
	return f
}

func (f *fileFilter) wants(path string) bool {
	if !strings.HasSuffix(path, ".java") {
		return false
	}
	rel, err := filepath.Rel(f.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	if f.ignore != nil && f.ignore.MatchesPath(rel) {
		return false
	}
	if !included(f.include, rel) {
		return false
	}
	return !excluded(f.exclude, rel)
}

// skipDir reports whether a directory subtree should not be walked.
func skipDir(name string) bool {
	return skipDirs[name] || strings.HasPrefix(name, ".")
}

// discover walks root and returns the sorted list of Java files to
// analyze.
func (d *Driver) discover(root string) ([]string, error) {
	filter := d.newFileFilter(root)

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path == root {
				return nil
			}
			if skipDir(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filter.wants(path) {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Strings(files)
	return files, nil
}

// included reports whether rel passes the include globs; no globs
// means everything passes.
func included(patterns []string, rel string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func excluded(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}
