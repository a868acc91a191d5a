package declare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"supermodeler/modeler"
)

// DefaultDebounce is the quiet period after the last file event before a
// change is reported.
const DefaultDebounce = 100 * time.Millisecond

var errWatcherClosed = errors.New("watcher channels closed")

// Watcher reports changes to one declaration file. The parent directory is
// watched so that editors replacing the file by rename are seen too.
type Watcher struct {
	path     string
	fs       *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
	closed   atomic.Bool
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the logger for file events and reload results.
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher starts watching path. Events are queued until Watch runs.
func NewWatcher(path string, opts ...WatchOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		path:     abs,
		fs:       fsw,
		logger:   slog.New(slog.DiscardHandler),
		debounce: DefaultDebounce,
	}

	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	return w, nil
}

// Watch calls onChange after each burst of changes to the file. It blocks
// until ctx is done or the watcher is closed. Errors from onChange are
// logged and watching continues.
func (w *Watcher) Watch(ctx context.Context, onChange func() error) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
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

		case event, ok := <-w.fs.Events:
			if !ok {
				return w.closedErr()
			}

			if !w.relevant(event) {
				continue
			}

			w.logger.Debug("declaration file event", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}

			fire = timer.C

		case <-fire:
			fire = nil

			if err := onChange(); err != nil {
				w.logger.Error("declaration reload failed", "path", w.path, "error", err)
				continue
			}

			w.logger.Info("declarations reloaded", "path", w.path)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return w.closedErr()
			}

			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// Close stops watching. A running Watch returns nil.
func (w *Watcher) Close() error {
	w.closed.Store(true)
	return w.fs.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	return filepath.Clean(event.Name) == w.path
}

func (w *Watcher) closedErr() error {
	if w.closed.Load() {
		return nil
	}

	return errWatcherClosed
}

// LoadAndWatch loads path into reg, then reloads it on every change until
// ctx is done. Reloading redefines the declared models and maps; those
// removed from the file stay registered. A reload that fails its check
// or names a missing function leaves the registry untouched.
func LoadAndWatch(ctx context.Context, reg *modeler.Registry, path string, funcs *Funcs, opts ...WatchOption) error {
	w, err := NewWatcher(path, opts...)
	if err != nil {
		return err
	}

	defer func() { _ = w.Close() }()

	if err := Load(reg, path, funcs); err != nil {
		return err
	}

	return w.Watch(ctx, func() error {
		return Load(reg, path, funcs)
	})
}
