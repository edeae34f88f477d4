// Package watch notifies long-running winctl servers when their config
// file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchError represents an error encountered by a file watcher.
type WatchError struct {
	Err   error
	Fatal bool
}

func (e WatchError) Error() string { return e.Err.Error() }

// Watcher sends the file path on Updates whenever the file is written,
// created or replaced. The parent directory is watched so the file may not
// exist yet, and editors that save by rename are seen.
type Watcher struct {
	Errors  chan WatchError
	Updates chan string

	file    string
	watcher *fsnotify.Watcher
}

// New starts watching file's directory.
func New(file string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	file = filepath.Clean(file)
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(file), err)
	}
	return &Watcher{
		Errors:  make(chan WatchError, 32),
		Updates: make(chan string, 32),
		file:    file,
		watcher: watcher,
	}, nil
}

// Run forwards events until ctx is done or the underlying watcher fails.
// It closes the fsnotify watcher on return.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				w.sendError(WatchError{Err: fmt.Errorf("watcher closed"), Fatal: true})
				return
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case w.Updates <- w.file:
			default:
				// A reload is already queued.
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.sendError(WatchError{Err: fmt.Errorf("watcher closed"), Fatal: true})
				return
			}
			w.sendError(WatchError{Err: err})
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) sendError(err WatchError) {
	select {
	case w.Errors <- err:
	default:
	}
}
