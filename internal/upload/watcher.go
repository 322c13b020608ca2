package upload

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/datahub/internal/objectstore"
)

// EventCallback is called after a watcher-observed bucket change.
// kind is "stored" or "removed".
type EventCallback func(kind, key string)

// Watch starts an fsnotify watcher on the bucket root and processes object
// change events until ctx is cancelled. It calls cb (if non-nil) for every
// observed change and runs a debounced orphan sweep afterwards: stored
// objects no record references are reported in the log. Cleanup of orphans
// is deliberately not performed.
func Watch(ctx context.Context, store objectstore.Provider, bucketRoot string, referenced func() map[string]struct{}, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(bucketRoot); err != nil {
		return err
	}

	logger.Info("bucket watcher: started", slog.String("root", bucketRoot))

	// sweepTimer debounces orphan sweeps after bursts of storage events.
	var sweepTimer *time.Timer
	var sweepCh <-chan time.Time

	scheduleSweep := func() {
		if sweepTimer == nil {
			sweepTimer = time.NewTimer(200 * time.Millisecond)
			sweepCh = sweepTimer.C
		} else {
			sweepTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if sweepTimer != nil {
				sweepTimer.Stop()
			}
			logger.Info("bucket watcher: stopped")
			return nil

		case <-sweepCh:
			sweepOrphans(store, referenced, logger)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			key := filepath.Base(ev.Name)
			// Skip in-flight temp files from atomic writes.
			if strings.HasPrefix(key, ".") {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				logger.Debug("bucket watcher: object stored", slog.String("key", key))
				if cb != nil {
					cb("stored", key)
				}
				scheduleSweep()

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				logger.Debug("bucket watcher: object removed", slog.String("key", key))
				if cb != nil {
					cb("removed", key)
				}
				scheduleSweep()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("bucket watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// sweepOrphans lists the bucket and logs every stored object that no record
// references. Report-only: a successful upload followed by an aborted submit
// legitimately leaves an orphan behind.
func sweepOrphans(store objectstore.Provider, referenced func() map[string]struct{}, logger *slog.Logger) {
	keys, err := store.List()
	if err != nil {
		logger.Warn("orphan sweep: list failed", slog.String("error", err.Error()))
		return
	}

	refs := referenced()
	for _, key := range keys {
		if _, ok := refs[key]; !ok {
			logger.Warn("orphan sweep: unreferenced object", slog.String("key", key))
		}
	}
}
