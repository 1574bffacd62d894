package config

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file when it changes on disk and delivers
// each valid result on Updates. Invalid edits are logged and skipped so a
// typo never tears down a running daemon.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan *Config
}

// NewWatcher watches path's directory for changes to the config file.
// Watching the directory instead of the file survives editors that
// replace the file on save.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		path:    path,
		watcher: fw,
		updates: make(chan *Config, 1),
	}, nil
}

// Updates returns the channel of reloaded configurations.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Start processes filesystem events until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}

			cfg, err := LoadFromPath(w.path)
			if err != nil {
				log.Printf("config: reload skipped: %v", err)
				continue
			}
			select {
			case w.updates <- cfg:
			default:
				// A pending update is stale; replace it.
				select {
				case <-w.updates:
				default:
				}
				w.updates <- cfg
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config: watch error: %v", err)
		}
	}
}
