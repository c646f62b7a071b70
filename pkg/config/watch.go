package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn with the reloaded config each time the file at path is
// written or replaced, until ctx is done. A file that fails to load is
// passed to fn as an error and the watch continues.
//
// The parent directory is watched so that editors which save by renaming
// a temporary file are seen.
func Watch(ctx context.Context, path string, fn func(*Config, error)) error {
	if _, err := FormatFromPath(path); err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch config: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					fn(Load(abs))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fn(nil, fmt.Errorf("watch config: %w", err))
			}
		}
	}()
	return nil
}
