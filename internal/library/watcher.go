package library

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports debounced changes to the audio files of a single directory.
type Watcher struct {
	root     string
	allowed  map[string]struct{}
	watcher  *fsnotify.Watcher
	logger   *log.Logger
	debounce time.Duration
}

// NewWatcher starts watching root for changes to files with the allowed extensions.
func NewWatcher(root string, allowed []string, debounce time.Duration, logger *log.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.Default()
	}

	if err := watcher.Add(root); err != nil {
		watcher.Close()
		return nil, err
	}

	return &Watcher{
		root:     root,
		allowed:  extensionSet(allowed),
		watcher:  watcher,
		logger:   logger,
		debounce: debounce,
	}, nil
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run blocks until ctx is done or the watcher is closed, calling onChange once
// per burst of relevant events after the debounce delay has elapsed quietly.
// onChange runs on the caller's goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func()) {
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				fire = time.After(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("watcher error: %v", err)
		case <-fire:
			fire = nil
			onChange()
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		return true
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		return false
	}
	_, ok := w.allowed[Extension(event.Name)]
	return ok
}
