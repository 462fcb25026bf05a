package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 500 * time.Millisecond

type rebuilder interface {
	Rebuild(reason string) error
}

// watcher queues a rebuild shortly after files under its directories change.
// Directories created later are added as they appear.
type watcher struct {
	fs       *fsnotify.Watcher
	r        rebuilder
	debounce time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

func watch(ctx context.Context, r rebuilder, dirs ...string) (*watcher, error) {
	return startWatcher(ctx, r, watchDebounce, dirs...)
}

func startWatcher(ctx context.Context, r rebuilder, debounce time.Duration, dirs ...string) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := addTree(fsw, dir); err != nil {
			slog.Warn("Failed to watch directory", "dir", dir, "error", err)
		}
	}

	w := &watcher{
		fs:       fsw,
		r:        r,
		debounce: debounce,
		stop:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop(ctx)
	return w, nil
}

func (w *watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			slog.Debug("Change detected", "path", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(w.fs, event.Name); err != nil {
						slog.Warn("Failed to watch directory", "dir", event.Name, "error", err)
					}
				}
			}

			w.schedule()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}

// schedule restarts the debounce timer.
func (w *watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *watcher) fire() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	// Close waits for a rebuild that is already being queued.
	w.wg.Add(1)
	w.mu.Unlock()
	defer w.wg.Done()

	if err := w.r.Rebuild("watch"); err != nil {
		slog.Error("Failed to enqueue rebuild", "error", err)
	}
}

// Close stops watching and cancels any pending rebuild. Once it returns no
// further rebuilds are queued.
func (w *watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.stop)
	w.mu.Unlock()

	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
