package daemon

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/modcabinet/cabinetsorter/internal/config"
	"github.com/modcabinet/cabinetsorter/internal/errors"
	"github.com/modcabinet/cabinetsorter/internal/logfields"
)

// treeWatcher watches every directory of every configured tree and fires a
// single debounced notification per change burst. fsnotify watches are not
// recursive, so each subdirectory is registered individually; directories
// created after startup are picked up by the next poll-interval run instead.
type treeWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
	notify   func()
}

func newTreeWatcher(cfg *config.Config, logger *slog.Logger, notify func()) (*treeWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, errors.SeverityFatal, "creating file watcher")
	}

	tw := &treeWatcher{
		watcher:  w,
		logger:   logger,
		debounce: cfg.Daemon.DebounceWindow(),
		notify:   notify,
	}

	for _, tree := range cfg.Trees {
		added, err := tw.addRecursive(tree.Path)
		if err != nil {
			_ = w.Close()
			return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal,
				"watching tree "+tree.Name)
		}
		logger.Debug("watching tree", logfields.Tree(tree.Name), logfields.Count(added))
	}
	return tw, nil
}

func (tw *treeWatcher) addRecursive(root string) (int, error) {
	added := 0
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if name := entry.Name(); strings.HasPrefix(name, ".") && path != root {
			return filepath.SkipDir
		}
		if err := tw.watcher.Add(path); err != nil {
			return err
		}
		added++
		return nil
	})
	return added, err
}

// Start runs the event loop until ctx is canceled.
func (tw *treeWatcher) Start(ctx context.Context) {
	go func() {
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-tw.watcher.Events:
				if !ok {
					return
				}
				if strings.Contains(event.Name, string(filepath.Separator)+".git"+string(filepath.Separator)) {
					continue
				}
				tw.logger.Debug("tree change observed", logfields.File(event.Name))
				if timer == nil {
					timer = time.NewTimer(tw.debounce)
					fire = timer.C
				} else {
					timer.Reset(tw.debounce)
				}
			case err, ok := <-tw.watcher.Errors:
				if !ok {
					return
				}
				tw.logger.Warn("file watcher error", logfields.Error(err))
			case <-fire:
				timer = nil
				fire = nil
				tw.notify()
			}
		}
	}()
}

// Close releases the underlying watcher.
func (tw *treeWatcher) Close() error {
	return tw.watcher.Close()
}
