// Package watch triggers extra sweeps when a tracked file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Watch is given a non-positive debounce.
const DefaultDebounce = 500 * time.Millisecond

// Trigger is called once per burst of changes to the watched files.
type Trigger func(ctx context.Context)

// Watch watches the parent directories of paths and calls trigger after
// debounce has passed without a further change to one of the paths.
// Events for other files in the same directories are ignored. Watch
// blocks until ctx is cancelled.
func Watch(ctx context.Context, paths []string, debounce time.Duration, logger *slog.Logger, trigger Trigger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	tracked, dirs, err := resolve(paths)
	if err != nil {
		return err
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch: add %s: %w", dir, err)
		}
	}
	logger.Info("watcher: started",
		slog.Int("files", len(tracked)),
		slog.Int("dirs", len(dirs)))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
			return
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			logger.Debug("watcher: triggering sweep")
			trigger(ctx)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, ok := tracked[abs]; !ok {
				continue
			}
			logger.Debug("watcher: change",
				slog.String("path", abs),
				slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// resolve returns the absolute tracked paths and their parent directories.
func resolve(paths []string) (map[string]struct{}, map[string]struct{}, error) {
	tracked := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, fmt.Errorf("watch: %w", err)
		}
		tracked[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	return tracked, dirs, nil
}
