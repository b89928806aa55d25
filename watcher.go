package filegate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates cache entries when files under the root change on disk.
// The mtime re-stat on every hit already guarantees correctness; the watcher
// narrows the window in which a changed file still occupies cache memory, and
// catches deletions without waiting for the next read.
//
// Opt-in: recursive watches are expensive on large trees, so the watcher is
// not started by New.
type Watcher struct {
	fsw  *fsnotify.Watcher
	gw   Gateway
	root string
	log  Logger
	stop chan struct{}
	done chan struct{}
}

// NewWatcher watches root (recursively) and invalidates the gateway entry for
// every changed, removed or renamed path. Close releases the watches.
func NewWatcher(gw Gateway, root string, log Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = NopLogger{}
	}

	w := &Watcher{
		fsw:  fsw,
		gw:   gw,
		root: root,
		log:  log,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	// fsnotify does not watch subdirectories automatically.
	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil // skip unreadable subdirectories
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != dir && (name == ".git" || name == "node_modules" || name == "vendor" ||
			strings.HasPrefix(name, ".")) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", Fields{"err": err})
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		// New directories need their own watch.
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
			return
		}
	}
	if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename) || event.Op.Has(fsnotify.Create) {
		if w.gw.Invalidate(event.Name) {
			w.log.Debug("invalidated changed file", Fields{"path": event.Name})
		}
	}
}

// Close stops the event loop and releases all watches.
func (w *Watcher) Close() error {
	close(w.stop)
	err := w.fsw.Close()
	<-w.done
	return err
}
