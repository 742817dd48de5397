// Package collector walks a source tree and yields the component files to analyze.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dejo1307/a11yaudit/internal/findings"
)

// ErrRootMissing is returned when the scan root does not exist, is not a
// directory, or cannot be read. It aborts the run.
var ErrRootMissing = errors.New("root directory missing or unreadable")

// skipDirs are never descended into, at any depth.
var skipDirs = map[string]bool{
	"node_modules": true,
	"build":        true,
	"dist":         true,
	".git":         true,
	"android":      true,
	"ios":          true,
}

// IsSkippedDir reports whether a directory with this base name is never scanned.
func IsSkippedDir(name string) bool {
	return skipDirs[name]
}

// Collector enumerates analyzable files under a root.
type Collector struct {
	extensions map[string]bool
	ignore     []string
	logger     *zap.Logger

	mu          sync.Mutex
	notes       []findings.Note
	interrupted bool
}

// New creates a collector for the given extensions (".tsx", ...) and glob ignore patterns.
func New(extensions, ignore []string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range NormalizeExtensions(extensions) {
		exts[e] = true
	}
	return &Collector{extensions: exts, ignore: ignore, logger: logger}
}

// NormalizeExtensions lower-cases extensions and adds the leading dot, so
// "TSX" and ".tsx" both become ".tsx". Blank entries are dropped.
func NormalizeExtensions(extensions []string) []string {
	out := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// Collect checks that root is a readable directory and returns a lazy,
// depth-first sequence of slash-separated paths relative to root. Iteration
// stops when the consumer stops or ctx is cancelled. Symlinks are not followed.
func (c *Collector) Collect(ctx context.Context, root string) (iter.Seq[string], error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.notes = nil
	c.interrupted = false
	c.mu.Unlock()

	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				c.mu.Lock()
				c.interrupted = true
				c.mu.Unlock()
				return fs.SkipAll
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if err != nil {
				kind := findings.NoteFileReadError
				if d == nil || d.IsDir() {
					kind = findings.NoteDirReadError
				}
				c.addNote(findings.Note{Kind: kind, File: rel, Detail: err.Error()})
				c.logger.Warn("skipping unreadable path", zap.String("path", rel), zap.Error(err))
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}

			if rel == "." {
				return nil
			}

			if d.IsDir() {
				if skipDirs[d.Name()] || c.isIgnored(rel) {
					return fs.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}
			if !c.extensions[strings.ToLower(filepath.Ext(rel))] || c.isIgnored(rel) {
				return nil
			}
			if !yield(rel) {
				return fs.SkipAll
			}
			return nil
		})
	}, nil
}

// Notes returns the diagnostics recorded by the most recent walk.
func (c *Collector) Notes() []findings.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]findings.Note, len(c.notes))
	copy(out, c.notes)
	return out
}

// Interrupted reports whether the most recent walk stopped because its context
// was cancelled before every entry was visited.
func (c *Collector) Interrupted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interrupted
}

func (c *Collector) addNote(n findings.Note) {
	c.mu.Lock()
	c.notes = append(c.notes, n)
	c.mu.Unlock()
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRootMissing, root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrRootMissing, root)
	}
	f, err := os.Open(root)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRootMissing, root, err)
	}
	defer f.Close()
	if _, err := f.ReadDir(1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %v", ErrRootMissing, root, err)
	}
	return nil
}

// isIgnored checks whether a slash-separated relative path matches any ignore pattern.
func (c *Collector) isIgnored(relPath string) bool {
	for _, pattern := range c.ignore {
		// dir/** matches the directory and everything below it
		if strings.HasSuffix(pattern, "/**") {
			dirPrefix := strings.TrimSuffix(pattern, "/**")
			if relPath == dirPrefix || strings.HasPrefix(relPath, dirPrefix+"/") {
				return true
			}
		}

		if matched, err := filepath.Match(pattern, relPath); err == nil && matched {
			return true
		}

		// **/*.test.tsx matches the base name or the whole path
		if strings.HasPrefix(pattern, "**/") {
			sub := strings.TrimPrefix(pattern, "**/")
			if matched, err := filepath.Match(sub, filepath.Base(relPath)); err == nil && matched {
				return true
			}
			if matched, err := filepath.Match(sub, relPath); err == nil && matched {
				return true
			}
		}
	}
	return false
}
