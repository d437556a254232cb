package project

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of fsnotify events most editors
// emit for a single save into one reload.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reloads a project file when it changes on disk and hands the
// fresh Project to a callback. Reload errors are reported but do not
// stop the watcher; the previous project stays current until a valid
// save appears.
type Watcher struct {
	path     string
	debounce time.Duration
	onReload func(*Project)
	onError  func(error)
	logger   *slog.Logger

	fw     *fsnotify.Watcher
	mu     sync.Mutex
	timer  *time.Timer
	closed bool
	wg     sync.WaitGroup
}

// WatchFile starts watching the project file at path. onReload is
// called with each successfully reloaded project; onError (optional)
// with reload failures.
func WatchFile(path string, onReload func(*Project), onError func(error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors that replace the file via rename
	// would otherwise drop the watch on the first save.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		onReload: onReload,
		onError:  onError,
		logger:   slog.Default(),
		fw:       fw,
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("project watch error", "path", w.path, "err", err)
		}
	}
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	p, err := Load(w.path)
	if err != nil {
		w.logger.Warn("project reload failed", "path", w.path, "err", err)
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	w.logger.Debug("project reloaded", "path", w.path, "tracks", len(p.Tracks))
	w.onReload(p)
}

// Close stops watching. Pending debounced reloads are cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fw.Close()
	w.wg.Wait()
	return err
}
