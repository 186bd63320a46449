package content

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/minuteai/minute-site/internal/logging"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a content file into a Store whenever it changes. A file
// that fails to parse is logged and the previous content is kept.
type Watcher struct {
	path     string
	store    *Store
	debounce time.Duration
	onReload func(*Site, error)
}

// NewWatcher creates a watcher for path feeding store.
func NewWatcher(path string, store *Store) *Watcher {
	return &Watcher{
		path:     path,
		store:    store,
		debounce: DefaultDebounce,
	}
}

// OnReload registers a callback run after every reload attempt.
func (w *Watcher) OnReload(fn func(*Site, error)) {
	w.onReload = fn
}

// SetDebounce overrides the debounce window.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run watches until ctx is cancelled. The parent directory is watched rather
// than the file so that editors replacing the file by rename are seen.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create content watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve content path: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	logging.Info("Watching content file", zap.String("path", abs))

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logging.Debug("Content file event",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()),
			)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logging.Warn("Content watcher error", zap.Error(err))

		case <-timerC:
			timerC = nil
			w.reload(abs)
		}
	}
}

func (w *Watcher) reload(path string) {
	site, err := Load(path)
	if err == nil {
		w.store.Set(site)
	}
	logging.LogContentReload(path, err)
	if w.onReload != nil {
		w.onReload(site, err)
	}
}
