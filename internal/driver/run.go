package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"taglint/internal/diag"
	"taglint/internal/observ"
)

// Stats aggregates a run over many files.
type Stats struct {
	Files      int `json:"files"`
	CacheHits  int `json:"cache_hits"`
	Tagged     int `json:"tagged"`
	Violations int `json:"violations"`
	Failed     int `json:"failed"`
}

// RunResult is the outcome of analyzing a directory tree.
type RunResult struct {
	Root    string
	Files   []FileResult
	Stats   Stats
	Timings observ.Report
}

// AnalyzeDir discovers Java files under root and analyzes them
// concurrently. Per-file failures become notices on that file's result;
// only discovery errors and context cancellation abort the run.
func (d *Driver) AnalyzeDir(ctx context.Context, root string) (*RunResult, error) {
	timer := observ.NewTimer()

	endDiscover := timer.Phase("discover")
	files, err := d.discover(root)
	endDiscover(fmt.Sprintf("files=%d", len(files)))
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}

	endAnalyze := timer.Phase("analyze")
	results, err := d.analyzePaths(ctx, files)
	if err != nil {
		return nil, err
	}
	endAnalyze(fmt.Sprintf("jobs=%d", d.cfg.Jobs))

	endAggregate := timer.Phase("aggregate")
	stats := tally(results)
	endAggregate("")

	return &RunResult{
		Root:    root,
		Files:   results,
		Stats:   stats,
		Timings: timer.Report(),
	}, nil
}

// AnalyzeOne runs the pipeline over a single file and wraps the result
// in a RunResult so renderers treat files and directories the same.
// Unlike directory runs, a read failure here is the caller's error.
func (d *Driver) AnalyzeOne(ctx context.Context, path string) (*RunResult, error) {
	timer := observ.NewTimer()
	endAnalyze := timer.Phase("analyze")
	res, err := d.AnalyzeFile(ctx, path)
	endAnalyze("jobs=1")
	if err != nil {
		return nil, err
	}
	results := []FileResult{*res}
	return &RunResult{
		Root:    filepath.Dir(path),
		Files:   results,
		Stats:   tally(results),
		Timings: timer.Report(),
	}, nil
}

// AnalyzeBuffer wraps AnalyzeSource in a RunResult the same way, for
// stdin input. The caches stay out of it; transient content has no
// stable identity to key on.
func (d *Driver) AnalyzeBuffer(ctx context.Context, name string, content []byte) *RunResult {
	timer := observ.NewTimer()
	endAnalyze := timer.Phase("analyze")
	res := d.AnalyzeSource(ctx, name, content)
	endAnalyze("jobs=1")
	results := []FileResult{*res}
	return &RunResult{
		Root:    ".",
		Files:   results,
		Stats:   tally(results),
		Timings: timer.Report(),
	}
}

// analyzePaths fans the files out over the configured number of
// workers. Results land at unique indices, so no mutex guards them.
func (d *Driver) analyzePaths(ctx context.Context, files []string) ([]FileResult, error) {
	if len(files) == 0 {
		return nil, nil
	}

	for _, path := range files {
		emit(d.progress, Event{File: path, Stage: StageExtract, Status: StatusQueued})
	}

	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(d.cfg.Jobs, len(files)))

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				emit(d.progress, Event{File: path, Stage: StageExtract, Status: StatusWorking})
				start := time.Now()

				res, err := d.AnalyzeFile(gctx, path)
				if err != nil {
					results[i] = FileResult{
						Path: path,
						Notices: []diag.Notice{{
							Severity: diag.SevError,
							Code:     diag.IOLoadFileError,
							Path:     path,
							Message:  "failed to load file: " + err.Error(),
						}},
					}
					emit(d.progress, Event{File: path, Stage: StageExtract, Status: StatusError, Err: err, Elapsed: time.Since(start)})
					return nil
				}

				results[i] = *res
				emit(d.progress, Event{File: path, Stage: StageMatch, Status: StatusDone, Elapsed: time.Since(start)})
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func tally(results []FileResult) Stats {
	stats := Stats{Files: len(results)}
	for i := range results {
		r := &results[i]
		if r.CacheHit {
			stats.CacheHits++
		}
		if r.Profile != nil && r.Profile.Len() > 0 {
			stats.Tagged++
		}
		if r.Outcome != nil {
			stats.Violations += len(r.Outcome.Violations)
		}
		if r.Profile == nil {
			stats.Failed++
		}
	}
	return stats
}
