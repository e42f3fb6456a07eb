// Package pipeline orchestrates one full run: tree sync, scanning, change
// detection, directory processing, and projection output.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/modcabinet/cabinetsorter/internal/cache"
	"github.com/modcabinet/cabinetsorter/internal/category"
	"github.com/modcabinet/cabinetsorter/internal/config"
	"github.com/modcabinet/cabinetsorter/internal/errors"
	"github.com/modcabinet/cabinetsorter/internal/gitsync"
	"github.com/modcabinet/cabinetsorter/internal/logfields"
	"github.com/modcabinet/cabinetsorter/internal/metrics"
	"github.com/modcabinet/cabinetsorter/internal/mods"
	"github.com/modcabinet/cabinetsorter/internal/projection"
	"github.com/modcabinet/cabinetsorter/internal/report"
	"github.com/modcabinet/cabinetsorter/internal/scan"
	"github.com/modcabinet/cabinetsorter/internal/util/sets"
)

// Engine runs the cabinet pipeline end to end.
type Engine struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *category.Registry
	store    cache.Store
	recorder metrics.Recorder
}

// Option configures engine behavior.
type Option func(*Engine)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// New creates an engine over the given configuration, category registry, and
// cache store.
func New(cfg *config.Config, logger *slog.Logger, reg *category.Registry, store cache.Store, options ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		store:    store,
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// RunOptions tune one run.
type RunOptions struct {
	Force bool // reprocess every directory even when unchanged
	NoGit bool // skip pulling trees before the run
}

// Result summarizes one run.
type Result struct {
	RunID       string         `json:"run_id"`
	StartedAt   time.Time      `json:"started_at"`
	Duration    time.Duration  `json:"duration"`
	Skipped     bool           `json:"skipped"` // upstream unchanged, run not needed
	Directories int            `json:"directories"`
	Added       int            `json:"added"`
	Changed     int            `json:"changed"`
	Unchanged   int            `json:"unchanged"`
	Removed     int            `json:"removed"`
	Errored     int            `json:"errored"`
	Mods        int            `json:"mods"`
	Diagnostics []report.Entry `json:"diagnostics"`
}

// dirState ties together everything known about one scanned directory. The
// key is tree-qualified so directories from different trees never collide.
type dirState struct {
	key  string
	tree config.Tree
	info *scan.DirInfo
	sig  *cache.DirSignature
}

// Run executes one full pipeline pass.
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := e.logger.With(logfields.RunID(runID))
	acc := report.New()

	res := &Result{RunID: runID, StartedAt: started.UTC()}

	if !opts.NoGit && e.cfg.Git.Enabled {
		changed, err := e.syncTrees(logger)
		if err != nil {
			return nil, err
		}
		if !changed && !opts.Force && fileExists(e.cfg.Output.ProjectionPath) {
			logger.Info("no upstream changes, skipping run")
			res.Skipped = true
			res.Duration = time.Since(started)
			return res, nil
		}
	}

	snapshot, err := e.loadSnapshot(ctx, logger)
	if err != nil {
		return nil, err
	}

	states, scanErrored, err := e.scanTrees(logger, acc)
	if err != nil {
		return nil, err
	}

	current := make(map[string]*cache.DirSignature, len(states))
	for key, st := range states {
		current[key] = st.sig
	}
	delta := cache.Diff(snapshot, current)
	if opts.Force {
		delta.Changed = append(delta.Changed, delta.Unchanged...)
		delta.Unchanged = nil
	}
	// A directory that failed fingerprinting is still on disk, it just could
	// not be read this run. Its cache entry stays untouched so the next run
	// retries it instead of treating the failure as a removal.
	if scanErrored.Len() > 0 {
		kept := delta.Removed[:0]
		for _, key := range delta.Removed {
			if !scanErrored.Has(key) {
				kept = append(kept, key)
			}
		}
		delta.Removed = kept
	}
	logger.Info("change detection complete",
		slog.Int("added", len(delta.Added)),
		slog.Int("changed", len(delta.Changed)),
		slog.Int("unchanged", len(delta.Unchanged)),
		slog.Int("removed", len(delta.Removed)))

	upserts, records, erroredProc := e.processDirs(ctx, logger, states, delta, acc)
	if err := ctx.Err(); err != nil {
		e.recorder.IncRunOutcome("canceled")
		return nil, errors.Wrap(err, errors.CategoryInternal, errors.SeverityFatal, "run canceled")
	}

	// Unchanged directories contribute their cached records and diagnostics
	// unmodified; they were never re-parsed.
	for _, key := range delta.Unchanged {
		cached := snapshot[key]
		records = append(records, cached.Records...)
		acc.AddAll(cached.Diagnostics)
		if st, ok := states[key]; ok {
			e.recorder.IncDirOutcome(st.tree.Name, metrics.DirUnchanged)
		}
	}
	for _, key := range delta.Removed {
		logger.Info("directory removed", logfields.Directory(key))
		e.recorder.IncDirOutcome(treeOf(key), metrics.DirRemoved)
	}

	mods.LinkRelated(records)

	proj := projection.Build(e.registry, records, acc.Entries(), runID, time.Now())
	stage := time.Now()
	if err := projection.WriteFile(proj, e.cfg.Output.ProjectionPath); err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "writing projection")
	}
	e.recorder.ObserveStageDuration("project", time.Since(stage))

	stage = time.Now()
	if err := e.store.Commit(ctx, upserts, delta.Removed); err != nil {
		return nil, errors.Wrap(err, errors.CategoryCache, errors.SeverityFatal, "committing cache")
	}
	e.recorder.ObserveStageDuration("commit", time.Since(stage))

	res.Duration = time.Since(started)
	res.Directories = len(states)
	res.Added = len(delta.Added)
	res.Changed = len(delta.Changed)
	res.Unchanged = len(delta.Unchanged)
	res.Removed = len(delta.Removed)
	res.Errored = scanErrored.Len() + erroredProc
	res.Mods = len(proj.Mods)
	res.Diagnostics = proj.Errors

	e.recorder.ObserveRunDuration(res.Duration)
	e.recorder.SetModCount(res.Mods)
	e.recorder.SetErrorCount(len(res.Diagnostics))
	if res.Errored > 0 || len(res.Diagnostics) > 0 {
		e.recorder.IncRunOutcome("warning")
	} else {
		e.recorder.IncRunOutcome("success")
	}

	if e.cfg.Output.StatusPath != "" {
		if err := writeStatus(res, e.cfg.Output.StatusPath); err != nil {
			logger.Warn("writing status report failed", logfields.Error(err))
		}
	}

	logger.Info("run complete",
		logfields.Count(res.Mods),
		slog.Int("errored", res.Errored),
		slog.Int("diagnostics", len(res.Diagnostics)),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

// syncTrees pulls every configured tree and reports whether any moved.
func (e *Engine) syncTrees(logger *slog.Logger) (bool, error) {
	stage := time.Now()
	defer func() { e.recorder.ObserveStageDuration("sync", time.Since(stage)) }()

	changed := false
	for _, tree := range e.cfg.Trees {
		res, err := gitsync.Pull(tree.Path, logger)
		if err != nil {
			return false, err
		}
		if res.Changed {
			changed = true
			if e.cfg.Git.RestoreMTimes {
				if err := gitsync.RestoreMTimes(tree.Path, logger); err != nil {
					return false, err
				}
			}
		}
	}
	return changed, nil
}

func (e *Engine) loadSnapshot(ctx context.Context, logger *slog.Logger) (cache.Snapshot, error) {
	stage := time.Now()
	snapshot, err := e.store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryCache, errors.SeverityFatal, "loading cache snapshot")
	}
	e.recorder.ObserveStageDuration("load", time.Since(stage))
	logger.Debug("cache snapshot loaded", logfields.Count(len(snapshot)))
	return snapshot, nil
}

// scanTrees walks every tree and fingerprints each candidate directory.
// Directories whose files cannot be read are reported and returned as the
// errored set; they are excluded from the current state so change detection
// leaves their previous cached entries intact.
func (e *Engine) scanTrees(logger *slog.Logger, acc *report.Accumulator) (map[string]*dirState, sets.Set[string], error) {
	stage := time.Now()
	defer func() { e.recorder.ObserveStageDuration("scan", time.Since(stage)) }()

	states := make(map[string]*dirState)
	errored := sets.New[string]()
	for _, tree := range e.cfg.Trees {
		dirs, err := scan.Walk(tree.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("tree scanned", logfields.Tree(tree.Name), logfields.Count(len(dirs)))
		for _, di := range dirs {
			key := dirKey(tree.Name, di.RelPath)
			sig, err := cache.ComputeDir(di)
			if err != nil {
				acc.Error(key, "fingerprinting directory: %v", err)
				e.recorder.IncDirOutcome(tree.Name, metrics.DirErrored)
				errored.Add(key)
				continue
			}
			states[key] = &dirState{key: key, tree: tree, info: di, sig: sig}
		}
	}
	return states, errored, nil
}

func dirKey(tree, relPath string) string {
	return path.Join(tree, relPath)
}

func treeOf(key string) string {
	if i := strings.IndexByte(key, '/'); i > 0 {
		return key[:i]
	}
	return key
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
