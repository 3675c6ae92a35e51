package config

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watch reloads the configuration when the config file changes, so a
// long-lived server picks up token or default changes without a restart.
// No-op when no config file exists. The watcher stops when ctx is cancelled.
func Watch(ctx context.Context, log *logrus.Logger) error {
	path := FilePath()
	if path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Failed to close watcher after add error")
		}
		return fmt.Errorf("failed to watch config file: %w", err)
	}

	go func() {
		defer func() {
			if closeErr := watcher.Close(); closeErr != nil {
				log.WithError(closeErr).Debug("Failed to close config watcher")
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == fsnotify.Write {
					log.WithField("file", path).Debug("Config file changed, reloading")
					Reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Error("Config file watcher error")
			}
		}
	}()

	log.WithField("file", path).Debug("Watching config file for changes")
	return nil
}
