package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// WatchLogLevel re-reads LOG_LEVEL from the env file at path whenever the file
// is written and applies it to level. It blocks until ctx is done.
func WatchLogLevel(ctx context.Context, path string, level zap.AtomicLevel, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// The directory is watched rather than the file: editors save by renaming
	// over the original, which drops a watch on the file itself.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			changed, err := reloadLogLevel(target, level)
			if err != nil {
				logger.Warn("env file reload failed", zap.String("path", target), zap.Error(err))
				continue
			}
			if changed {
				logger.Info("log level reloaded", zap.Stringer("level", level.Level()))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("env file watch error", zap.Error(err))
		}
	}
}

// reloadLogLevel applies LOG_LEVEL from path and reports whether the level changed.
func reloadLogLevel(path string, level zap.AtomicLevel) (bool, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	raw, ok := env["LOG_LEVEL"]
	if !ok {
		return false, nil
	}

	lvl, err := zapcore.ParseLevel(raw)
	if err != nil {
		return false, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if lvl == level.Level() {
		return false, nil
	}
	level.SetLevel(lvl)
	return true, nil
}
