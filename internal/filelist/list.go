// Package filelist holds the ordered set of PDF paths queued for merging.
//
// Insertion order is merge order. A List never holds the same path twice,
// never holds more than MaxFiles entries and only accepts paths ending in
// .pdf (case-insensitive). It also tracks the entry highlighted in the
// front end so reorder and delete act on a single selection.
package filelist

import (
	"path/filepath"
	"strings"
	"sync"

	"pdfmerge/internal/errors"
	"pdfmerge/internal/log"
)

// MaxFiles is the largest number of entries a List accepts.
const MaxFiles = 15

// NoSelection is the selection index when nothing is highlighted.
const NoSelection = -1

// List is an ordered, duplicate-free set of PDF paths.
type List struct {
	mu        sync.RWMutex
	paths     []string
	selected  int
	listeners []func()
}

// New returns an empty List.
func New() *List {
	return &List{selected: NoSelection}
}

// IsPDF reports whether path has a .pdf extension, ignoring case.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// OnChange registers fn to be called after every mutation. Listeners run on
// the goroutine that mutated the list, after the lock is released.
func (l *List) OnChange(fn func()) {
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	l.mu.Unlock()
}

func (l *List) notify() {
	l.mu.RLock()
	listeners := make([]func(), len(l.listeners))
	copy(listeners, l.listeners)
	l.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

func normalize(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Add appends path to the end of the list. It reports false without error
// when the path is already queued. A full list yields a CapacityExceeded
// error and a non-PDF path a NotPDF error; neither changes the list.
func (l *List) Add(path string) (bool, error) {
	if path == "" {
		return false, errors.NewFileError("empty path", "", errors.InvalidPath, nil)
	}
	if !IsPDF(path) {
		return false, errors.NewFileError("not a PDF file", path, errors.NotPDF, nil)
	}
	path = normalize(path)

	l.mu.Lock()
	for _, p := range l.paths {
		if p == path {
			l.mu.Unlock()
			log.Debugf("ignoring duplicate %s", path)
			return false, nil
		}
	}
	if len(l.paths) >= MaxFiles {
		l.mu.Unlock()
		return false, errors.ErrCapacityExceeded
	}
	l.paths = append(l.paths, path)
	l.mu.Unlock()

	l.notify()
	return true, nil
}

// AddAll adds paths in order and returns how many were appended. Non-PDF
// paths and duplicates are skipped; the first capacity error stops the loop
// and is returned.
func (l *List) AddAll(paths []string) (int, error) {
	added := 0
	for _, p := range paths {
		ok, err := l.Add(p)
		if err != nil {
			if errors.IsCapacityExceeded(err) {
				return added, err
			}
			log.LogWithError(err).Debug("skipping path")
			continue
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// Select highlights the entry at i. An out-of-range index clears the
// selection.
func (l *List) Select(i int) {
	l.mu.Lock()
	if i >= 0 && i < len(l.paths) {
		l.selected = i
	} else {
		l.selected = NoSelection
	}
	l.mu.Unlock()
}

// Unselect clears the selection.
func (l *List) Unselect() {
	l.Select(NoSelection)
}

// Selected returns the highlighted index, if any.
func (l *List) Selected() (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.selected, l.selected != NoSelection
}

// MoveUp swaps the selected entry with the one above it and keeps it
// selected. It reports whether anything moved.
func (l *List) MoveUp() bool {
	i, ok := l.Selected()
	if !ok {
		return false
	}
	return l.MoveUpAt(i)
}

// MoveDown swaps the selected entry with the one below it and keeps it
// selected. It reports whether anything moved.
func (l *List) MoveDown() bool {
	i, ok := l.Selected()
	if !ok {
		return false
	}
	return l.MoveDownAt(i)
}

// MoveUpAt swaps entries i-1 and i and selects i-1.
func (l *List) MoveUpAt(i int) bool {
	return l.swap(i, i-1)
}

// MoveDownAt swaps entries i and i+1 and selects i+1.
func (l *List) MoveDownAt(i int) bool {
	return l.swap(i, i+1)
}

func (l *List) swap(from, to int) bool {
	l.mu.Lock()
	if from < 0 || from >= len(l.paths) || to < 0 || to >= len(l.paths) {
		l.mu.Unlock()
		return false
	}
	l.paths[from], l.paths[to] = l.paths[to], l.paths[from]
	l.selected = to
	l.mu.Unlock()

	l.notify()
	return true
}

// RemoveSelected deletes the selected entry and clears the selection.
func (l *List) RemoveSelected() bool {
	i, ok := l.Selected()
	if !ok {
		return false
	}
	return l.RemoveAt(i)
}

// RemoveAt deletes entry i and clears the selection.
func (l *List) RemoveAt(i int) bool {
	l.mu.Lock()
	if i < 0 || i >= len(l.paths) {
		l.mu.Unlock()
		return false
	}
	l.paths = append(l.paths[:i], l.paths[i+1:]...)
	l.selected = NoSelection
	l.mu.Unlock()

	l.notify()
	return true
}

// Clear empties the list.
func (l *List) Clear() {
	l.mu.Lock()
	if len(l.paths) == 0 {
		l.mu.Unlock()
		return
	}
	l.paths = nil
	l.selected = NoSelection
	l.mu.Unlock()

	l.notify()
}

// Snapshot returns a copy of the queued paths in merge order.
func (l *List) Snapshot() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.paths))
	copy(out, l.paths)
	return out
}

// Display returns the base names of the queued paths in order.
func (l *List) Display() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, len(l.paths))
	for i, p := range l.paths {
		names[i] = filepath.Base(p)
	}
	return names
}

// At returns the path at index i.
func (l *List) At(i int) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.paths) {
		return "", false
	}
	return l.paths[i], true
}

// Contains reports whether path is queued.
func (l *List) Contains(path string) bool {
	path = normalize(path)
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.paths {
		if p == path {
			return true
		}
	}
	return false
}

// Len returns the number of queued paths.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.paths)
}

// Full reports whether the list holds MaxFiles entries.
func (l *List) Full() bool {
	return l.Len() >= MaxFiles
}
