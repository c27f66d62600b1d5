package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// PreferencesWatcher reports edits to the preferences file made outside
// the application.
type PreferencesWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func()
	logger   *log.Logger
}

// WatchPreferences watches the directory holding path, since editors
// often replace the file instead of writing it in place.
func WatchPreferences(path string, onChange func(), logger *log.Logger) (*PreferencesWatcher, error) {
	if logger == nil {
		logger = log.Default()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir %s: %w", dir, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &PreferencesWatcher{
		path:     filepath.Clean(path),
		watcher:  watcher,
		onChange: onChange,
		logger:   logger,
	}, nil
}

// Run delivers change notifications until ctx is done or Close is called.
func (pw *PreferencesWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != pw.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				if pw.onChange != nil {
					pw.onChange()
				}
			}
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			pw.logger.Printf("[storage] preferences watch: %v", err)
		}
	}
}

// Close stops watching.
func (pw *PreferencesWatcher) Close() error {
	return pw.watcher.Close()
}
