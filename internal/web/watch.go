package web

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls a function when any of a set of files changes. Parent
// directories are watched so editors that replace files on save are seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	onChange func()
}

// NewWatcher watches paths. Files whose directory does not exist are skipped
// with a warning; it fails only when nothing can be watched.
func NewWatcher(paths []string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	w := &Watcher{watcher: fw, files: make(map[string]struct{}), debounce: debounce, onChange: onChange}
	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			slog.Warn("cannot watch path", "path", p, "error", err)
			continue
		}
		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; !ok {
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				slog.Warn("cannot watch path, directory missing", "path", p)
				continue
			}
			if err := fw.Add(dir); err != nil {
				slog.Warn("cannot watch directory", "dir", dir, "error", err)
				continue
			}
			dirs[dir] = struct{}{}
		}
		w.files[abs] = struct{}{}
	}

	if len(w.files) == 0 {
		fw.Close()
		return nil, fmt.Errorf("no watchable paths in %v", paths)
	}
	return w, nil
}

// Run delivers debounced change notifications until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("watched file changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	_, ok := w.files[filepath.Clean(event.Name)]
	return ok
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
