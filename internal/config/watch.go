package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// WatchPolicy reloads the policy file whenever it is written and passes each
// valid result to apply. Invalid edits are logged and skipped. The watch
// stops when ctx is done.
func WatchPolicy(ctx context.Context, path string, apply func(Policy)) error {
	path = filepath.Clean(path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
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
				if filepath.Clean(event.Name) != path {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				p, err := LoadPolicy(path)
				if err != nil {
					log.Warn().Err(err).Str("path", path).Msg("Policy reload failed, keeping previous policy")
					continue
				}
				log.Info().Str("path", path).Msg("Policy reloaded")
				apply(p)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Msg("Policy watcher error")
			}
		}
	}()
	return nil
}
