// Package watch re-triggers work when scenario files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/wethinkt/go-demoreel/internal/applog"
)

// DefaultDebounce is used when New is given a zero debounce.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports changes to a fixed set of files. It watches their
// directories so editors that save by renaming a temp file are still seen.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	files    map[string]bool
}

// New watches the given files.
func New(files []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{fw: fw, debounce: debounce, files: make(map[string]bool)}
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

// Run blocks until ctx is done, calling onChange once per changed file after
// writes have been quiet for the debounce interval. Calls happen on the
// Run goroutine, one at a time, so handlers never overlap.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			path, err := filepath.Abs(event.Name)
			if err != nil || !w.files[path] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			applog.Log.Debug("watch: change", "path", path, "op", event.Op)
			pending[path] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			for _, p := range paths {
				onChange(p)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			applog.Log.Warn("watch: fsnotify error", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
