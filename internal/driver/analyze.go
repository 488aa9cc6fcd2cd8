package driver

import (
	"context"
	"fmt"
	"os"

	"taglint/internal/compound"
	"taglint/internal/diag"
	"taglint/internal/extract"
	"taglint/internal/rules"
	"taglint/internal/source"
	"taglint/internal/syntax"
)

// defaultMaxNotices bounds the per-file bag when the caller does not
// set a cap of its own.
const defaultMaxNotices = 128

// FileResult is everything the engine learned about one file: the tag
// profile with provenance, the compound resolutions, the rule outcome
// and the notices the stages emitted along the way.
type FileResult struct {
	Path      string
	Profile   *extract.Profile
	Compounds []compound.Result
	Outcome   *rules.Outcome
	// Summary holds the structural counts when the file was parsed this
	// run. It is nil on cache hits and when parsing was disabled or
	// failed; the profile alone decides rule outcomes either way.
	Summary  *syntax.Summary
	Notices  []diag.Notice
	CacheHit bool
}

// AnalyzeFile reads path and runs the full pipeline over it, consulting
// the profile caches keyed by content and catalog fingerprint.
func (d *Driver) AnalyzeFile(ctx context.Context, path string) (*FileResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return d.analyze(ctx, path, content, true), nil
}

// AnalyzeSource runs the pipeline over an in-memory buffer. It never
// touches the caches; editors and tests feed transient content here.
func (d *Driver) AnalyzeSource(ctx context.Context, name string, content []byte) *FileResult {
	return d.analyze(ctx, name, content, false)
}

func (d *Driver) newBag() *diag.Bag {
	capNotices := d.cfg.MaxNotices
	if capNotices <= 0 {
		capNotices = defaultMaxNotices
	}
	return diag.NewBag(capNotices)
}

func (d *Driver) analyze(ctx context.Context, path string, content []byte, useCache bool) *FileResult {
	bag := d.newBag()
	rep := diag.BagReporter{Bag: bag}
	res := &FileResult{Path: path}

	// Normalization first, so CRLF and BOM variants of the same file
	// share one cache entry.
	content, flags := source.Normalize(content)
	if flags&source.FileRecodedLatin1 != 0 {
		diag.Warnf(rep, diag.IORecodedInput, path, "",
			"content is not valid UTF-8, reinterpreted as ISO 8859-1")
	}

	key := cacheKey(content, d.reg.Fingerprint)
	profile := d.cachedProfile(key, useCache)
	if profile != nil {
		res.CacheHit = true
	} else {
		var sum *syntax.Summary
		if !d.cfg.NoSyntax {
			parser := d.borrowParser()
			s, err := parser.Summarize(ctx, content)
			d.returnParser(parser)
			if err != nil {
				diag.Warnf(rep, diag.SynSummaryUnavailable, path, "",
					"syntax summary unavailable, metric and node detectors skipped: %v", err)
			} else {
				sum = s
			}
		}
		res.Summary = sum

		profile = d.extr.Extract(string(content), sum, rep)
		if useCache {
			d.storeProfile(key, profile)
		}
	}

	res.Profile = profile
	res.Compounds = compound.Resolve(profile, d.reg.Compounds, d.eval, rep)
	res.Outcome = d.matcher.Match(profile.TagSet(), d.catalog, rules.Options{
		SkipUntagged:   d.cfg.SkipUntagged,
		SortByPriority: true,
	}, rep)

	res.Notices = bag.Items()
	return res
}

// cachedProfile checks memory first, then disk, promoting disk hits
// into memory. Returned profiles are private copies safe to mutate.
func (d *Driver) cachedProfile(key CacheKey, useCache bool) *extract.Profile {
	if !useCache {
		return nil
	}
	if d.mem != nil {
		if p, ok := d.mem.Get(key); ok {
			return p
		}
	}
	if d.disk != nil {
		if p, ok := d.disk.Get(key); ok {
			if d.mem != nil {
				d.mem.Put(key, p)
			}
			return p
		}
	}
	return nil
}

// storeProfile writes through to both caches. A disk write failure is
// not worth a notice per file; the entry is simply recomputed next run.
func (d *Driver) storeProfile(key CacheKey, p *extract.Profile) {
	if d.mem != nil {
		d.mem.Put(key, p)
	}
	if d.disk != nil {
		_ = d.disk.Put(key, p)
	}
}
