package exercises

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Shashikr2605/StrideSense/internal/gait"
	"github.com/Shashikr2605/StrideSense/internal/logging"
	"github.com/Shashikr2605/StrideSense/internal/store"
)

// reloadDebounce ignores bursts of file events shorter than this.
const reloadDebounce = 500 * time.Millisecond

// Catalog serves the current exercise database. Reload imports the source
// file (or the built-in defaults) into the store and swaps in a new
// snapshot read back from it; lookups never see a partial update.
type Catalog struct {
	path    string
	store   *store.Store
	log     *logging.Logger
	current atomic.Pointer[Database]
}

// NewCatalog creates a catalog for the YAML file at path. An empty path
// uses Default. A nil store keeps the catalog in memory only.
func NewCatalog(path string, st *store.Store, log *logging.Logger) *Catalog {
	if log == nil {
		log = logging.Discard()
	}
	c := &Catalog{path: path, store: st, log: log}
	empty := Database{}
	c.current.Store(&empty)
	return c
}

// Lookup implements gait.Catalog.
func (c *Catalog) Lookup(t gait.AbnormalityType) (gait.Program, bool) {
	return c.Snapshot().Lookup(t)
}

// Snapshot returns the database currently in use. Callers must not modify it.
func (c *Catalog) Snapshot() Database {
	return *c.current.Load()
}

// Reload re-reads the source and replaces the snapshot. On error the
// previous snapshot stays in use.
func (c *Catalog) Reload() error {
	db := Default()
	if c.path != "" {
		loaded, err := Load(c.path)
		if err != nil {
			return err
		}
		db = loaded
	}

	if c.store != nil {
		if err := c.store.Exercises().ReplaceAll(db.Entries()); err != nil {
			return fmt.Errorf("store exercises: %w", err)
		}
		rows, err := c.store.Exercises().List()
		if err != nil {
			return fmt.Errorf("list exercises: %w", err)
		}
		db = FromEntries(rows)
	}

	c.current.Store(&db)
	c.log.Info("exercise catalog loaded: %d abnormality types", len(db))
	return nil
}

// Watch reloads the catalog whenever its source file changes, until ctx is
// done. It returns immediately when the catalog has no source file.
func (c *Catalog) Watch(ctx context.Context) error {
	if c.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	target := filepath.Clean(c.path)
	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", target, err)
	}

	go func() {
		defer watcher.Close()

		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					pending = time.After(reloadDebounce)
				}
			case <-pending:
				pending = nil
				if err := c.Reload(); err != nil {
					c.log.Error("reload exercise catalog: %v", err)
					continue
				}
				c.log.Info("exercise catalog reloaded from %s", target)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.log.Warn("exercise watcher: %v", err)
			}
		}
	}()

	c.log.Info("watching %s for exercise changes", target)
	return nil
}
