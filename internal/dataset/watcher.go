package dataset

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"bookinsight/internal/adapters/observability"
)

// Watcher reloads the store when the bookings file changes on disk. A
// failed reload keeps the previous snapshot in place.
type Watcher struct {
	path    string
	store   *Store
	fw      *fsnotify.Watcher
	mu      sync.Mutex
	lastMod time.Time
}

// NewWatcher watches the directory containing path; editors and atomic
// renames often replace the file rather than write it in place, so the
// watch cannot sit on the file itself.
func NewWatcher(path string, store *Store) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fw.Close()
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return &Watcher{path: abs, store: store, fw: fw}, nil
}

// Run blocks until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fw.Close() }()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != w.path {
				continue
			}
			info, err := os.Stat(w.path)
			if err != nil {
				continue
			}
			w.mu.Lock()
			stale := info.ModTime().After(w.lastMod)
			if stale {
				w.lastMod = info.ModTime()
			}
			w.mu.Unlock()
			if stale {
				w.reload()
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func (w *Watcher) reload() {
	snap, err := Load(w.path)
	if err != nil {
		log.Error().Err(err).Str("path", w.path).Msg("dataset reload failed; keeping previous snapshot")
		return
	}
	if snap.Version() == w.store.Version() {
		return // touched but unchanged
	}
	w.store.Swap(snap)
	observability.ObserveReload(snap.Rows())
	log.Info().
		Str("version", snap.Version()).
		Int("rows", snap.Rows()).
		Msg("dataset reloaded")
}
