package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dejo1307/a11yaudit/internal/collector"
	"github.com/dejo1307/a11yaudit/internal/config"
	"github.com/dejo1307/a11yaudit/internal/detectors"
	"github.com/dejo1307/a11yaudit/internal/findings"
	"github.com/dejo1307/a11yaudit/internal/renderers"
	"github.com/dejo1307/a11yaudit/internal/report"
	"github.com/dejo1307/a11yaudit/internal/scoring"
	"github.com/dejo1307/a11yaudit/internal/wcag"
)

// FindingsFile is the JSONL dump of every finding written next to renderer artifacts.
const FindingsFile = "findings.jsonl"

// Engine orchestrates the audit pipeline: collect -> detect -> tally/score -> aggregate -> render.
type Engine struct {
	cfg       *config.Config
	logger    *zap.Logger
	collector *collector.Collector
	detectors *detectors.Registry
	renderers *renderers.Registry
	store     *findings.Store

	mu          sync.Mutex // serializes runs
	report      atomic.Pointer[findings.ComplianceReport]
	cache       map[string]cacheEntry // root-relative path -> last result
	cacheKey    string                // root and detector set the cache was built for
	workerCount int
}

type cacheEntry struct {
	hash      string
	component bool
	result    detectors.Result
}

// New creates a new Engine with the given config.
// Detectors and renderers must be registered after creation.
func New(cfg *config.Config, logger *zap.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{
		cfg:         cfg,
		logger:      logger.Named("engine"),
		collector:   collector.New(cfg.Extensions, cfg.Ignore, logger.Named("collector")),
		detectors:   detectors.NewRegistry(),
		renderers:   renderers.NewRegistry(),
		store:       findings.NewStore(),
		workerCount: workers,
	}, nil
}

// RegisterDetector adds a detector to the engine.
func (e *Engine) RegisterDetector(d detectors.Detector) {
	e.detectors.Register(d)
}

// RegisterRenderer adds a renderer to the engine.
func (e *Engine) RegisterRenderer(rnd renderers.Renderer) {
	e.renderers.Register(rnd)
}

// Store returns the findings store, refreshed after every run.
func (e *Engine) Store() *findings.Store {
	return e.store
}

// Report returns the last generated report, or nil.
func (e *Engine) Report() *findings.ComplianceReport {
	return e.report.Load()
}

// Config returns the engine config.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// fileResult is the private outcome of analyzing one file.
type fileResult struct {
	index     int
	path      string
	hash      string
	component bool
	cached    bool
	note      *findings.Note
	result    detectors.Result
}

type job struct {
	index int
	path  string
}

// Run audits root (config root when empty). Unreadable roots abort with an error
// wrapping collector.ErrRootMissing. When ctx is cancelled mid-run, the partial
// report is returned, marked incomplete, together with ctx.Err().
func (e *Engine) Run(ctx context.Context, root string) (*findings.ComplianceReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	if root == "" {
		root = e.cfg.Root
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	paths, err := e.collector.Collect(ctx, absRoot)
	if err != nil {
		return nil, fmt.Errorf("collecting sources: %w", err)
	}

	active := e.activeDetectors()
	if key := absRoot + "|" + strings.Join(active.Names(), ","); key != e.cacheKey {
		e.cache = nil
		e.cacheKey = key
	}

	results, interrupted := e.analyze(ctx, absRoot, paths, active)

	var merged detectors.Result
	var stats report.Stats
	var cacheHits int
	notes := e.collector.Notes()
	nextCache := make(map[string]cacheEntry, len(results))
	for _, r := range results {
		if r.note != nil {
			notes = append(notes, *r.note)
			stats.FilesSkipped++
			continue
		}
		stats.FilesScanned++
		if r.component {
			stats.ComponentsScanned++
		}
		if r.cached {
			cacheHits++
		}
		merged.Merge(r.result)
		nextCache[r.path] = cacheEntry{hash: r.hash, component: r.component, result: r.result}
	}
	notes = append(notes, merged.Notes...)

	var ctxErr error
	if interrupted {
		ctxErr = ctx.Err()
		stats.Incomplete = true
		notes = append(notes, findings.Note{
			Kind:   findings.NoteCancelled,
			Detail: fmt.Sprintf("run cancelled after %d file(s): %v", len(results), ctxErr),
		})
	} else {
		e.cache = nextCache
	}

	e.logger.Info("analysis finished",
		zap.String("root", absRoot),
		zap.Int("files", stats.FilesScanned),
		zap.Int("components", stats.ComponentsScanned),
		zap.Int("skipped", stats.FilesSkipped),
		zap.Int("cached", cacheHits),
		zap.Int("findings", len(merged.Findings)),
	)

	score := scoring.Score(merged.Findings, stats.ComponentsScanned, len(merged.Successes))
	rep := report.Aggregate(report.Input{
		Findings:  merged.Findings,
		Successes: merged.Successes,
		Notes:     notes,
		Stats:     stats,
		Score:     score,
		Tally:     wcag.Compute(merged.Findings, stats.ComponentsScanned),
		Meta: findings.ReportMeta{
			Root:        absRoot,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			Duration:    time.Since(start).Round(time.Millisecond).String(),
			Detectors:   active.Names(),
			Renderers:   e.enabledRenderers(),
		},
	})

	e.runRenderers(ctx, rep)

	e.store.Clear()
	e.store.Add(merged.Findings...)
	e.report.Store(rep)

	e.logger.Info("report generated",
		zap.Float64("score", rep.Summary.OverallScore),
		zap.Int("issues", rep.Summary.TotalIssues),
		zap.Int("warnings", rep.Summary.TotalWarnings),
		zap.Duration("duration", time.Since(start)),
	)
	return rep, ctxErr
}

// activeDetectors returns the registered detectors enabled by config, in registration order.
func (e *Engine) activeDetectors() *detectors.Registry {
	active := detectors.NewRegistry()
	for _, d := range e.detectors.All() {
		if e.cfg.IsDetectorEnabled(d.Name()) {
			active.Register(d)
		}
	}
	return active
}

// analyze fans paths out to the worker pool and returns per-file results in
// collection order. Each worker owns its result; nothing is merged until all
// workers have finished. interrupted is true when cancellation dropped any
// file: the walk stopped early, the feeder gave up, or a worker skipped a job.
func (e *Engine) analyze(ctx context.Context, root string, paths iter.Seq[string], active *detectors.Registry) (results []fileResult, interrupted bool) {
	jobs := make(chan job)
	out := make(chan fileResult)
	var dropped atomic.Bool

	var wg sync.WaitGroup
	for range e.workerCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					dropped.Store(true)
					continue
				}
				out <- e.analyzeFile(root, j, active)
			}
		}()
	}

	go func() {
		defer close(jobs)
		i := 0
		for p := range paths {
			select {
			case <-ctx.Done():
				dropped.Store(true)
				return
			case jobs <- job{index: i, path: p}:
			}
			i++
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	for r := range out {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })
	return results, dropped.Load() || e.collector.Interrupted()
}

// analyzeFile reads, hashes and checks one file. The cache is read-only while workers run.
func (e *Engine) analyzeFile(root string, j job, active *detectors.Registry) fileResult {
	res := fileResult{index: j.index, path: j.path}

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(j.path)))
	if err != nil {
		e.logger.Warn("skipping unreadable file", zap.String("file", j.path), zap.Error(err))
		res.note = &findings.Note{Kind: findings.NoteFileReadError, File: j.path, Detail: err.Error()}
		return res
	}

	h := sha256.Sum256(data)
	res.hash = hex.EncodeToString(h[:])

	if c, ok := e.cache[j.path]; ok && c.hash == res.hash {
		res.cached = true
		res.component = c.component
		res.result = c.result
		return res
	}

	file := detectors.NewSourceFile(j.path, data)
	res.component = file.Doc.IsComponent()
	res.result = active.Run(file)
	if file.Doc.HasErrors {
		e.logger.Debug("parsed with syntax errors", zap.String("file", j.path))
	}
	return res
}

func (e *Engine) enabledRenderers() []string {
	var names []string
	for _, rnd := range e.renderers.All() {
		if e.cfg.IsRendererEnabled(rnd.Name()) {
			names = append(names, rnd.Name())
		}
	}
	return names
}

// runRenderers runs all enabled renderers. A failing renderer is logged and skipped.
func (e *Engine) runRenderers(ctx context.Context, rep *findings.ComplianceReport) {
	for _, rnd := range e.renderers.All() {
		if !e.cfg.IsRendererEnabled(rnd.Name()) {
			continue
		}
		artifacts, err := rnd.Render(ctx, rep)
		if err != nil {
			e.logger.Error("renderer failed", zap.String("renderer", rnd.Name()), zap.Error(err))
			continue
		}
		rep.Artifacts = append(rep.Artifacts, artifacts...)
	}
}

// WriteArtifacts writes all report artifacts plus findings.jsonl to outDir.
func (e *Engine) WriteArtifacts(outDir string) error {
	rep := e.Report()
	if rep == nil {
		return fmt.Errorf("no report generated")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	for _, a := range rep.Artifacts {
		path := filepath.Join(outDir, a.Name)
		if err := os.WriteFile(path, a.Content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", a.Name, err)
		}
		e.logger.Info("wrote artifact", zap.String("path", path), zap.Int("bytes", len(a.Content)))
	}

	findingsPath := filepath.Join(outDir, FindingsFile)
	if err := e.store.WriteJSONLFile(findingsPath); err != nil {
		return fmt.Errorf("writing %s: %w", FindingsFile, err)
	}
	e.logger.Info("wrote artifact", zap.String("path", findingsPath))
	return nil
}

// GetArtifact returns the content of a named artifact or of findings.jsonl.
func (e *Engine) GetArtifact(name string) ([]byte, error) {
	rep := e.Report()
	if rep == nil {
		return nil, fmt.Errorf("no report generated")
	}

	if name == FindingsFile {
		var buf bytes.Buffer
		if err := e.store.WriteJSONL(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	for _, a := range rep.Artifacts {
		if a.Name == name {
			return a.Content, nil
		}
	}
	return nil, fmt.Errorf("artifact %q not found", name)
}
