package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path"
	"sync"
	"time"

	"github.com/modcabinet/cabinetsorter/internal/cabinet"
	"github.com/modcabinet/cabinetsorter/internal/cache"
	"github.com/modcabinet/cabinetsorter/internal/logfields"
	"github.com/modcabinet/cabinetsorter/internal/metrics"
	"github.com/modcabinet/cabinetsorter/internal/mods"
	"github.com/modcabinet/cabinetsorter/internal/readme"
	"github.com/modcabinet/cabinetsorter/internal/report"
)

// processDirs parses every added or changed directory through a worker pool.
// A directory that fails entirely is reported and left out of the upserts,
// so its previous cached state survives and the next run retries it.
func (e *Engine) processDirs(ctx context.Context, logger *slog.Logger, states map[string]*dirState, delta cache.Delta, acc *report.Accumulator) (upserts []cache.Entry, records []*mods.ModRecord, errored int) {
	stage := time.Now()
	defer func() { e.recorder.ObserveStageDuration("process", time.Since(stage)) }()

	work := make([]string, 0, len(delta.Added)+len(delta.Changed))
	work = append(work, delta.Added...)
	work = append(work, delta.Changed...)
	if len(work) == 0 {
		return nil, nil, 0
	}

	builders := make(map[string]*mods.Builder, len(e.cfg.Trees))
	for _, tree := range e.cfg.Trees {
		builders[tree.Name] = mods.NewBuilder(tree.Name)
	}

	workers := e.cfg.Pipeline.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(work) {
		workers = len(work)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	keys := make(chan string)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for key := range keys {
				if ctx.Err() != nil {
					continue
				}
				st := states[key]
				entry, err := e.processDir(st, builders[st.tree.Name])
				mu.Lock()
				if err != nil {
					acc.Error(key, "processing directory: %v", err)
					errored++
					e.recorder.IncDirOutcome(st.tree.Name, metrics.DirErrored)
				} else {
					upserts = append(upserts, entry)
					records = append(records, entry.Records...)
					acc.AddAll(entry.Diagnostics)
					e.recorder.IncDirOutcome(st.tree.Name, metrics.DirProcessed)
				}
				mu.Unlock()
			}
		}()
	}
	for _, key := range work {
		keys <- key
	}
	close(keys)
	wg.Wait()

	logger.Info("directories processed",
		logfields.Count(len(work)),
		slog.Int("errored", errored))
	return upserts, records, errored
}

// processDir parses one directory's control file and README, then builds its
// mod records. Diagnostics accumulate into a per-directory accumulator so
// they can be cached with the directory and replayed on unchanged runs.
func (e *Engine) processDir(st *dirState, builder *mods.Builder) (cache.Entry, error) {
	di := st.info
	local := report.New()

	control, err := os.ReadFile(di.FullPath(di.Control))
	if err != nil {
		return cache.Entry{}, err
	}
	parsed := cabinet.Parse(di.RelPath, control, di.Files(), di.ModFiles(), e.registry)
	for _, d := range parsed.Diagnostics {
		local.Warn(di.RelPath, "", "%s:%d: %s", di.Control, d.Line, d.Message)
	}

	var doc *readme.Document
	if di.Readme != "" {
		content, err := os.ReadFile(di.FullPath(di.Readme))
		if err != nil {
			return cache.Entry{}, err
		}
		doc = readme.ParseDocument(content, parsed.Len() > 1)
	}

	files := make(map[string]mods.ModFile)
	for _, name := range di.ModFiles() {
		fs, ok := st.sig.Content(name)
		if !ok {
			continue
		}
		files[name] = mods.ModFile{
			Name:    name,
			RelPath: path.Join(di.RelPath, name),
			Size:    fs.Size,
			ModTime: fs.ModTime,
			SHA256:  fs.SHA256,
		}
	}

	built := builder.Build(di, parsed, doc, files, local)

	return cache.Entry{
		Dir:         st.key,
		Hash:        st.sig.Hash,
		Signature:   *st.sig,
		Records:     built,
		Diagnostics: local.Entries(),
	}, nil
}
