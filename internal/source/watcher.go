package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/javiermolinar/almanac/internal/event"
)

const defaultDebounce = 100 * time.Millisecond

// WatchOptions configures a Watcher.
type WatchOptions struct {
	Loader Loader
	// Debounce collapses bursts of writes into one reload.
	Debounce time.Duration
	// OnLoad receives the events after every successful reload.
	OnLoad func([]event.Event)
	Logger *slog.Logger
}

// Watcher reloads an events file whenever it changes on disk. It watches the
// parent directory so editors that replace the file on save are still seen.
type Watcher struct {
	path     string
	loader   Loader
	debounce time.Duration
	onLoad   func([]event.Event)
	logger   *slog.Logger
	fs       *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher starts watching path. Call Run to process changes.
func NewWatcher(path string, opts WatchOptions) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		loader:   opts.Loader,
		debounce: opts.Debounce,
		onLoad:   opts.OnLoad,
		logger:   opts.Logger,
		fs:       fs,
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run processes file events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	events, err := w.loader.Load(w.path)
	if err != nil {
		// Keep the last good events; a half-written file fails here too.
		w.logger.Warn("reload failed", "path", w.path, "error", err)
		return
	}
	w.logger.Debug("events reloaded", "path", w.path, "count", len(events))
	if w.onLoad != nil {
		w.onLoad(events)
	}
}

func (w *Watcher) close() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	if err := w.fs.Close(); err != nil {
		w.logger.Warn("closing watcher", "error", err)
	}
}
