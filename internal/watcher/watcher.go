// Package watcher reports writes to the store made by other processes, so an
// open popup can reload its state.
package watcher

import (
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher watches the directory holding a database file and signals Changes
// when the file or its journal files are written. Bursts of events within the
// debounce window collapse into one signal.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	base      string
	changes   chan struct{}
	done      chan struct{}
	debounce  time.Duration

	mu      sync.Mutex
	pending *time.Timer
	closed  bool
}

func New(dbPath string) (*Watcher, error) {
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		base:      filepath.Base(abs),
		changes:   make(chan struct{}, 1),
		done:      make(chan struct{}),
		debounce:  defaultDebounce,
	}
	go w.processEvents()
	log.Printf("[watcher] Watching %s", abs)
	return w, nil
}

// Changes receives one value per debounced burst of writes. A signal that is
// not consumed absorbs later ones.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	if !w.matches(event.Name) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, w.fire)
}

// matches accepts the database file and its -wal/-shm/-journal siblings.
func (w *Watcher) matches(path string) bool {
	name := filepath.Base(path)
	return name == w.base || strings.HasPrefix(name, w.base+"-")
}

func (w *Watcher) fire() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
