package themes

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads templates from dir whenever a *.yaml file in it is written or
// created. A template that fails to parse is logged and the previous version
// stays active. Watch blocks until ctx is cancelled.
func (r *Registry) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	r.logger.Info("watching theme directory", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".yaml" {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			r.reloadFile(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("theme watcher error", "error", err)
		}
	}
}

func (r *Registry) reloadFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		r.logger.Warn("theme reload failed", "file", path, "error", err)
		return
	}
	doc, err := ParseTemplate(data)
	if err != nil {
		r.logger.Warn("theme template invalid, keeping previous version", "file", path, "error", err)
		return
	}
	theme := themeFromFile(filepath.Base(path))
	r.Set(theme, doc)
	r.logger.Info("theme reloaded", "theme", theme)
}
