package question

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher keeps the latest successfully parsed catalog of a YAML file.
// A reload that fails to parse keeps the previous catalog.
type Watcher struct {
	path string

	mu      sync.RWMutex
	catalog Catalog
}

// NewWatcher loads path once and returns a Watcher serving it.
func NewWatcher(path string) (*Watcher, error) {
	c, err := LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	return &Watcher{path: filepath.Clean(path), catalog: c}, nil
}

// Catalog returns the current catalog.
func (w *Watcher) Catalog() Catalog {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.catalog
}

// Reload re-reads the catalog file.
func (w *Watcher) Reload() error {
	c, err := LoadCatalog(w.path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.catalog = c
	w.mu.Unlock()
	return nil
}

// Run watches the catalog's directory and reloads on writes to the file until
// ctx is cancelled. The directory is watched rather than the file so editors
// that save by rename are still picked up. Reload failures go to onErr.
func (w *Watcher) Run(ctx context.Context, onErr func(error)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if err := w.Reload(); err != nil && onErr != nil {
					onErr(err)
				}
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			if onErr != nil {
				onErr(err)
			}
		}
	}
}
