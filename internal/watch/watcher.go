// Package watch reruns page generation when page files change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of editor writes into one run
const DefaultDebounce = 500 * time.Millisecond

// RunFunc is invoked after page files settle
type RunFunc func(ctx context.Context) error

// Watcher monitors a pages directory
type Watcher struct {
	dir      string
	ext      string
	run      RunFunc
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a watcher for files with extension ext in dir
func New(dir, ext string, run RunFunc, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("resolve pages dir: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		dir:      absDir,
		ext:      ext,
		run:      run,
		watcher:  fw,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Run watches until ctx is cancelled. Run failures are logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("Watching pages", "dir", w.dir, "ext", w.ext)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Page change detected", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Page watcher error", "error", err)

		case <-timer.C:
			w.logger.Info("Regenerating sitemaps")
			if err := w.run(ctx); err != nil {
				w.logger.Error("Regeneration failed", "error", err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, w.ext) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
