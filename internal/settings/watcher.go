package settings

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 500 * time.Millisecond

// Watcher reloads a Repository when its settings file changes on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	repo     *Repository
	file     string
	logger   *slog.Logger
	debounce time.Duration
}

// NewWatcher watches the directory holding path, so replacing the file by
// rename is observed too.
func NewWatcher(repo *Repository, path string, logger *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create settings watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("resolve settings path: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %q: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		watcher:  w,
		repo:     repo,
		file:     abs,
		logger:   logger,
		debounce: reloadDebounce,
	}, nil
}

// Run blocks until ctx is cancelled, reloading after the last write in a
// burst of events.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	reload := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			if err := w.repo.Reload(ctx); err != nil {
				w.logger.ErrorContext(ctx, "settings reload failed", "error", err, "path", w.file)
				continue
			}
			w.logger.InfoContext(ctx, "settings reloaded", "path", w.file)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnContext(ctx, "settings watcher error", "error", err)
		}
	}
}
