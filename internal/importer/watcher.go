package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher loads a schedule file and re-loads it whenever it changes on
// disk. A reload that fails to parse or validate keeps the previous file
// and is reported to the OnError callbacks.
type Watcher struct {
	path     string
	mu       sync.RWMutex
	current  *ScheduleFile
	onChange []func(*ScheduleFile)
	onError  []func(error)
}

// NewWatcher performs the initial load; it fails if the file is invalid.
func NewWatcher(path string) (*Watcher, error) {
	w := &Watcher{path: filepath.Clean(path)}
	f, err := w.load()
	if err != nil {
		return nil, err
	}
	w.current = f
	return w, nil
}

// File returns the latest valid schedule file.
func (w *Watcher) File() *ScheduleFile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func (w *Watcher) OnChange(fn func(*ScheduleFile)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

func (w *Watcher) OnError(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = append(w.onError, fn)
}

// Watch starts a background goroutine that reloads the file on change.
// The parent directory is watched so editors that save by rename are
// picked up. Call the returned stop function to clean up.
func (w *Watcher) Watch() (stop func(), err error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("schedule watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("schedule watcher add %s: %w", w.path, err)
	}

	done := make(chan struct{})
	go func() {
		defer fw.Close()
		for {
			select {
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != w.path {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					_, _ = w.Reload()
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.fail(fmt.Errorf("schedule watcher: %w", err))
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}

// Reload forces an immediate re-read of the file.
func (w *Watcher) Reload() (*ScheduleFile, error) {
	f, err := w.load()
	if err != nil {
		w.fail(err)
		return nil, err
	}
	w.mu.Lock()
	w.current = f
	callbacks := make([]func(*ScheduleFile), len(w.onChange))
	copy(callbacks, w.onChange)
	w.mu.Unlock()
	for _, fn := range callbacks {
		fn(f)
	}
	return f, nil
}

func (w *Watcher) fail(err error) {
	w.mu.RLock()
	callbacks := make([]func(error), len(w.onError))
	copy(callbacks, w.onError)
	w.mu.RUnlock()
	for _, fn := range callbacks {
		fn(err)
	}
}

func (w *Watcher) load() (*ScheduleFile, error) {
	f, err := LoadScheduleFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("load schedule %s: %w", w.path, err)
	}
	if errs := ValidateScheduleFile(f); len(errs) > 0 {
		return nil, fmt.Errorf("validate schedule %s: %w", w.path, errors.Join(errs...))
	}
	return f, nil
}
