// Package watch re-runs a callback when files under a directory tree
// change, with debouncing so that a burst of writes (an editor save, a
// doxygen regeneration) triggers a single run.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet period before the callback fires.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a directory tree recursively for changes to files with
// the configured extensions.
type Watcher struct {
	fs         *fsnotify.Watcher
	root       string
	extensions map[string]bool
	debounce   time.Duration
	callback   func(files []string)

	mu          sync.Mutex
	accumulated map[string]bool
	timer       *time.Timer

	stopOnce sync.Once
	done     chan struct{}
}

// New creates a watcher over root for the given file extensions (e.g.
// ".h", ".xml"). The callback receives the accumulated changed paths
// after each quiet period.
func New(root string, extensions []string, debounce time.Duration, callback func(files []string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extMap[ext] = true
	}
	w := &Watcher{
		fs:          fsw,
		root:        root,
		extensions:  extMap,
		debounce:    debounce,
		callback:    callback,
		accumulated: make(map[string]bool),
		done:        make(chan struct{}),
	}
	if err := w.addRecursively(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Start runs the event loop until the context is cancelled or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Stop shuts the watcher down. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fs.Close()
	})
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logrus.Warnf("watch: %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// New directories must be picked up to keep the watch recursive.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursively(event.Name); err != nil {
				logrus.Warnf("watch: adding %s: %v", event.Name, err)
			}
			return
		}
	}
	if !w.extensions[strings.ToLower(filepath.Ext(event.Name))] {
		return
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.accumulated[event.Name] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	files := make([]string, 0, len(w.accumulated))
	for f := range w.accumulated {
		files = append(files, f)
	}
	w.accumulated = make(map[string]bool)
	w.mu.Unlock()

	if len(files) == 0 {
		return
	}
	select {
	case <-w.done:
		return
	default:
	}
	w.callback(files)
}

func (w *Watcher) addRecursively(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if name := entry.Name(); name == ".git" || name == "build" {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}
