package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce batches the event bursts editors produce on save into
// a single re-analysis.
const watchDebounce = 400 * time.Millisecond

// Watch analyzes root once, then re-analyzes Java files as they change
// until ctx is done. Every pass, including the first, is delivered to
// onRun; passes after the first carry only the files that changed.
func (d *Driver) Watch(ctx context.Context, root string, onRun func(*RunResult)) error {
	initial, err := d.AnalyzeDir(ctx, root)
	if err != nil {
		return err
	}
	onRun(initial)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchTree(watcher, root); err != nil {
		return err
	}

	filter := d.newFileFilter(root)
	pending := make(map[string]struct{})

	// The timer idles until the first event arrives.
	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Chmod != 0 {
				continue
			}
			switch {
			case event.Op&fsnotify.Create != 0 && isDir(event.Name):
				if !skipDir(filepath.Base(event.Name)) {
					_ = watchTree(watcher, event.Name)
					collectJava(event.Name, filter, pending)
				}
			case filter.wants(event.Name):
				pending[event.Name] = struct{}{}
			}
			if len(pending) > 0 {
				debounce.Reset(watchDebounce)
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", root, watchErr)

		case <-debounce.C:
			batch := drainPending(pending)
			if len(batch) == 0 {
				continue
			}
			results, err := d.analyzePaths(ctx, batch)
			if err != nil {
				return err
			}
			onRun(&RunResult{Root: root, Files: results, Stats: tally(results)})
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// watchTree registers dir and every non-skipped subdirectory, since
// fsnotify watches are not recursive.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// A directory that vanished mid-walk is not fatal to the watch.
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if path != dir && skipDir(entry.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// collectJava adds every wanted Java file under dir to pending. New
// directories appear with their contents already in place, so the
// create event for the directory is the only signal for those files.
func collectJava(dir string, filter *fileFilter, pending map[string]struct{}) {
	_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			if path != dir && skipDir(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filter.wants(path) {
			pending[path] = struct{}{}
		}
		return nil
	})
}

// drainPending snapshots the dirty set in sorted order, dropping files
// that no longer exist, and clears it.
func drainPending(pending map[string]struct{}) []string {
	if len(pending) == 0 {
		return nil
	}
	batch := make([]string, 0, len(pending))
	for path := range pending {
		if _, err := os.Stat(path); err == nil {
			batch = append(batch, path)
		}
		delete(pending, path)
	}
	sort.Strings(batch)
	return batch
}
