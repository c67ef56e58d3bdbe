package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval is how long the watcher waits for the corpus to settle
// before reporting a batch of changes.
const DebounceInterval = 200 * time.Millisecond

// ChangeCallback receives the corpus-relative paths of Markdown files that
// changed since the previous call, sorted.
type ChangeCallback func(paths []string)

// Watch starts an fsnotify watcher on root and reports batches of changed
// Markdown files until ctx is cancelled. Events are debounced so an editor
// saving several files triggers a single callback.
//
// New directories created at runtime are automatically added to the watch
// list and any Markdown files already inside them are reported.
func Watch(ctx context.Context, root string, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func(rel string) {
		pending[rel] = struct{}{}
		if timer == nil {
			timer = time.NewTimer(DebounceInterval)
			timerCh = timer.C
		} else {
			timer.Reset(DebounceInterval)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			logger.Debug("watcher: corpus changed", slog.Int("files", len(paths)))
			if cb != nil {
				cb(paths)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
					for _, rel := range markdownUnder(root, ev.Name) {
						schedule(rel)
					}
					continue
				}
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			rel, relErr := filepath.Rel(root, ev.Name)
			if relErr != nil {
				continue
			}
			schedule(filepath.ToSlash(rel))

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// markdownUnder lists the Markdown files below dir relative to root.
func markdownUnder(root, dir string) []string {
	var out []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil {
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	return out
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
