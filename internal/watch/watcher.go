package watch

import (
	"fmt"
	"path/filepath"
	"sync"

	"pdfmerge/internal/log"

	"github.com/fsnotify/fsnotify"
)

// SourceEvent reports that a queued source vanished from disk or came back.
type SourceEvent struct {
	Path string
	Gone bool
}

// Watcher tracks queued source files and reports when they disappear.
// fsnotify watches directories, so the watcher subscribes to each source's
// parent directory and filters events down to tracked paths.
type Watcher struct {
	// Channel to deliver source events
	events chan SourceEvent

	// Channel to signal stop
	stopChan chan struct{}

	fsWatcher *fsnotify.Watcher

	// Closed by the event loop once it has exited
	done chan struct{}

	// Guards tracked, dirs, running and closed
	mutex   sync.RWMutex
	tracked map[string]bool
	dirs    map[string]int
	running bool
	closed  bool
}

// New creates a new source watcher using fsnotify
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		events:    make(chan SourceEvent, 16),
		stopChan:  make(chan struct{}),
		fsWatcher: fsWatcher,
		tracked:   make(map[string]bool),
		dirs:      make(map[string]int),
	}, nil
}

// Events returns the channel that delivers source events
func (w *Watcher) Events() <-chan SourceEvent {
	return w.events
}

// Sync makes the tracked set equal to paths, adding and removing directory
// watches as needed.
func (w *Watcher) Sync(paths []string) error {
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[filepath.Clean(p)] = true
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	for p := range w.tracked {
		if !want[p] {
			w.untrackLocked(p)
		}
	}

	var firstErr error
	for p := range want {
		if w.tracked[p] {
			continue
		}
		if err := w.trackLocked(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (w *Watcher) trackLocked(path string) error {
	dir := filepath.Dir(path)
	if w.dirs[dir] == 0 {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		log.LogWithFields(log.F("directory", dir)).Debug("Watching directory")
	}
	w.dirs[dir]++
	w.tracked[path] = true
	return nil
}

func (w *Watcher) untrackLocked(path string) {
	delete(w.tracked, path)
	dir := filepath.Dir(path)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if err := w.fsWatcher.Remove(dir); err != nil {
			log.LogWithFields(log.F("directory", dir), log.F("error", err)).Debug("Removing directory watch")
		}
	}
}

// Tracked returns the paths currently watched.
func (w *Watcher) Tracked() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	out := make([]string, 0, len(w.tracked))
	for p := range w.tracked {
		out = append(out, p)
	}
	return out
}

// Start begins the event loop
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	if w.closed {
		w.mutex.Unlock()
		return fmt.Errorf("watcher is closed")
	}
	w.running = true
	w.done = make(chan struct{})
	stop, done := w.stopChan, w.done
	w.mutex.Unlock()

	go w.loop(stop, done)

	log.Debug("Source watcher started.")
	return nil
}

func (w *Watcher) loop(stop, done chan struct{}) {
	// The loop is the only sender, so it closes the channel on the way out
	defer close(done)
	defer close(w.events)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	w.mutex.RLock()
	tracked := w.tracked[path]
	w.mutex.RUnlock()
	if !tracked {
		return
	}

	var ev SourceEvent
	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		ev = SourceEvent{Path: path, Gone: true}
	case event.Op.Has(fsnotify.Create):
		ev = SourceEvent{Path: path, Gone: false}
	default:
		return
	}

	// Send non-blockingly so a slow consumer cannot stall the loop
	select {
	case w.events <- ev:
	default:
		log.LogWithFields(log.F("file", path)).Warn("Source event channel is full, dropped event")
	}
}

// Stop halts the watcher and closes the event channel. A stopped watcher
// cannot be restarted.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if w.closed {
		w.mutex.Unlock()
		return
	}
	w.closed = true
	wasRunning := w.running
	w.running = false
	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	done := w.done
	w.mutex.Unlock()

	if wasRunning {
		<-done
	} else {
		close(w.events)
	}

	log.Debug("Source watcher stopped.")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}
