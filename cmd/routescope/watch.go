package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"pkt.systems/pslog"
)

// fileWatcher reports changes to a fixed set of files. The parent
// directories are watched so files replaced by rename are noticed too.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	targets map[string]struct{}
}

// newFileWatcher watches paths; empty entries are ignored.
func newFileWatcher(paths ...string) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}

	fw := &fileWatcher{watcher: watcher, targets: make(map[string]struct{}, len(paths))}
	dirs := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch: resolve %q: %w", p, err)
		}
		fw.targets[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}
		dirs[dir] = struct{}{}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch: add %s: %w", dir, err)
		}
	}
	return fw, nil
}

// run calls reload after every write, create or rename of a watched file
// until ctx is canceled. A failed reload is logged and the previous state
// kept.
func (fw *fileWatcher) run(ctx context.Context, logger pslog.Logger, reload func() error) {
	defer fw.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if _, watched := fw.targets[filepath.Clean(ev.Name)]; !watched {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.Info("watch.changed", "path", ev.Name, "op", ev.Op.String())
			if err := reload(); err != nil {
				logger.Warn("watch.reload_failed", "path", ev.Name, "error", err)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch.error", "error", err)
		}
	}
}
