package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher signals OnChange when the config file is written, created or
// replaced. Editors that save through a rename are covered by watching the
// file's directory.
type Watcher struct {
	Debounce time.Duration
	OnChange chan<- struct{}
	Path     string
}

func (w Watcher) Run(ctx context.Context) error {
	logger := log.Ctx(ctx)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	path, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.Path, err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	logger.Info().Str("path", path).Msg("watching config")

	debounce := newDebounce(ctx, w.Debounce)
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutdown watcher")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConfigChange(event, path) {
				continue
			}
			logger.Debug().Str("op", event.Op.String()).Msg("config changed")
			debounce(func() {
				select {
				case w.OnChange <- struct{}{}:
				case <-ctx.Done():
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func isConfigChange(event fsnotify.Event, path string) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != path {
		return false
	}
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Rename == fsnotify.Rename
}
