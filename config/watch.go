package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/katana-project/artwork/internal/errors"
	"go.uber.org/zap"
	"math"
	"path/filepath"
	"sync"
	"time"
)

// watchDebounce is the delay between the last write to the configuration file and its reload.
const watchDebounce = 100 * time.Millisecond

// Watcher reloads a configuration file when it changes.
type Watcher struct {
	path     string
	onChange func(*Config)
	logger   *zap.Logger
	watcher  *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}

	// reloadMu is held while onChange runs, closed is guarded by it.
	reloadMu sync.Mutex
	closed   bool
}

// NewWatcher starts watching the configuration file at path,
// onChange is called with the re-parsed configuration after every valid change,
// it must not call Close. Invalid configurations are logged and skipped.
func NewWatcher(path string, onChange func(*Config), logger *zap.Logger) (*Watcher, error) {
	path, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve configuration path")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to make watcher")
	}

	// watch the directory, editors replace the file on save
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, errors.Wrap(err, "failed to watch configuration directory")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		path:     path,
		onChange: onChange,
		logger:   logger,
		watcher:  watcher,
		done:     make(chan struct{}),
	}

	go w.handleFsEvents()
	return w, nil
}

func (w *Watcher) handleFsEvents() {
	defer close(w.done)

	for {
		select {
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.logger.Error("configuration watch error", zap.String("path", w.path), zap.Error(err))
		case e, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path || !(e.Has(fsnotify.Create) || e.Has(fsnotify.Write)) {
				continue
			}

			// event deduplication - reload 100ms after last event, else reset timer
			w.mu.Lock()
			if w.timer == nil {
				w.timer = time.AfterFunc(math.MaxInt64, w.reload)
			}
			w.timer.Reset(watchDebounce)
			w.mu.Unlock()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := ParseWithDefaults(w.path)
	if err != nil {
		w.logger.Error("failed to reload configuration", zap.String("path", w.path), zap.Error(err))
		return
	}

	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()
	if w.closed {
		return
	}

	w.logger.Info("reloaded configuration", zap.String("path", w.path))
	w.onChange(cfg)
}

// Close stops watching the configuration file,
// it waits for a running onChange call and no calls are made after it returns.
func (w *Watcher) Close() error {
	w.reloadMu.Lock()
	w.closed = true
	w.reloadMu.Unlock()

	err := w.watcher.Close()
	<-w.done

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	return err
}
