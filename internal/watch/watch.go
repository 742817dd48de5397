// Package watch re-runs an action whenever source files under a root change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dejo1307/a11yaudit/internal/collector"
)

// DefaultDebounce is the quiet period after the last event before onChange runs.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a source tree recursively.
type Watcher struct {
	root       string
	extensions map[string]bool
	ignoreDirs []string // absolute paths never watched (e.g. the output dir)
	debounce   time.Duration
	logger     *zap.Logger
	fw         *fsnotify.Watcher
}

// New creates a watcher for root. Only changes to files with one of the given
// extensions trigger a run. Directories in ignoreDirs are never watched.
func New(root string, extensions, ignoreDirs []string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	exts := make(map[string]bool, len(extensions))
	for _, e := range collector.NormalizeExtensions(extensions) {
		exts[e] = true
	}
	var ignored []string
	for _, d := range ignoreDirs {
		if abs, err := filepath.Abs(d); err == nil {
			ignored = append(ignored, abs)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch init: %w", err)
	}
	w := &Watcher{
		root:       absRoot,
		extensions: exts,
		ignoreDirs: ignored,
		debounce:   DefaultDebounce,
		logger:     logger.Named("watch"),
		fw:         fw,
	}
	if err := w.addRecursive(absRoot); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// SetDebounce overrides the debounce interval.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

// Run blocks until ctx is done, calling onChange once per burst of relevant
// events. onChange runs on the Run goroutine, so runs never overlap.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-fire:
			onChange(ctx)
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("change detected", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// relevant reports whether ev should trigger a run. New directories are
// added to the watch list as a side effect.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if w.isIgnored(ev.Name) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if isDir(ev.Name) {
			if err := w.addRecursive(ev.Name); err != nil {
				w.logger.Warn("cannot watch new directory", zap.String("path", ev.Name), zap.Error(err))
			}
			return true
		}
	}
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return w.extensions[strings.ToLower(filepath.Ext(ev.Name))]
}

func (w *Watcher) isIgnored(path string) bool {
	for _, d := range w.ignoreDirs {
		if path == d || strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// addRecursive watches dir and every scannable directory below it.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("watching %s: %w", path, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && (collector.IsSkippedDir(d.Name()) || w.isIgnored(path)) {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
