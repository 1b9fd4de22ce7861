package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/Benny93/layerviz/internal/logger"
)

// reloadDelay batches the bursts of events editors produce when saving.
const reloadDelay = 200 * time.Millisecond

// Watch reloads the configuration file at path whenever it changes and
// passes the new configuration to onChange. Invalid intermediate states are
// logged and skipped. Blocks until the context is cancelled.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "resolving config path")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return errors.Wrapf(err, "watching %s", filepath.Dir(absPath))
	}

	reloadTimer := time.NewTimer(reloadDelay)
	reloadTimer.Stop()
	defer reloadTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			reloadTimer.Reset(reloadDelay)

		case <-reloadTimer.C:
			cfg, err := Load(absPath)
			if err != nil {
				logger.Logger.Warnw("Ignoring invalid configuration", "path", absPath, "error", err)
				continue
			}
			logger.Logger.Infow("Configuration reloaded", "path", absPath)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Logger.Warnw("Watcher error", "error", err)
		}
	}
}
