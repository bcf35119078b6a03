package codebase

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var watcherLog = commonlog.GetLogger("aidl.watcher")

// FileWatcher re-indexes .aidl files when they change on disk. Events are
// batched until the debounce delay passes without a new one.
type FileWatcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(paths []string)
	done     chan struct{}
	wg       sync.WaitGroup

	mu      sync.Mutex
	pending map[string]fsnotify.Op
	timer   *time.Timer
}

// NewFileWatcher creates a watcher for the source directories of c. onChange
// receives the files whose diagnostics may have changed.
func NewFileWatcher(c *Codebase, debounce time.Duration, onChange func(paths []string)) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		codebase: c,
		watcher:  w,
		debounce: debounce,
		onChange: onChange,
		done:     make(chan struct{}),
		pending:  make(map[string]fsnotify.Op),
	}, nil
}

func (w *FileWatcher) Start() error {
	p := w.codebase.Project()
	for _, src := range p.Sources {
		if err := w.addTree(p.Path(src)); err != nil {
			return err
		}
	}
	w.wg.Add(1)
	go w.run()
	return nil
}

func (w *FileWatcher) Stop() {
	close(w.done)
	w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}

func (w *FileWatcher) addTree(root string) error {
	output := filepath.Clean(w.codebase.Project().Path(w.codebase.Project().Output))
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if filepath.Clean(path) == output || (path != root && strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		watcherLog.Debugf("watching %s", path)
		return w.watcher.Add(path)
	})
}

func (w *FileWatcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			watcherLog.Errorf("%s", err)
		}
	}
}

func (w *FileWatcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				watcherLog.Warningf("watch %s: %s", event.Name, err)
			}
			return
		}
	}
	if filepath.Ext(event.Name) != ".aidl" || event.Has(fsnotify.Chmod) && event.Op == fsnotify.Chmod {
		return
	}
	w.enqueue(event.Name, event.Op)
}

func (w *FileWatcher) enqueue(path string, op fsnotify.Op) {
	w.mu.Lock()
	defer w.mu.Unlock()

	watcherLog.Debugf("%s: %s", op, path)
	w.pending[path] |= op
	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *FileWatcher) flush() {
	w.mu.Lock()
	pending := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.timer = nil
	w.mu.Unlock()

	if len(pending) == 0 {
		return
	}
	for path, op := range pending {
		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			if _, err := os.Stat(path); err != nil {
				if !w.codebase.RemoveClosedFile(path) {
					watcherLog.Debugf("%s removed on disk, keeping the open buffer", path)
				}
				continue
			}
		}
		if err := w.codebase.ScanFile(path); err != nil {
			watcherLog.Warningf("scan %s: %s", path, err)
			w.codebase.RemoveClosedFile(path)
		}
	}
	paths := w.codebase.Reindex()
	if w.onChange != nil {
		w.onChange(paths)
	}
}
