// Package daemon keeps the sorter running continuously: a periodic poll via
// the scheduler plus optional filesystem watching on the mods trees. Runs are
// serialized through a single loop; overlapping triggers collapse into one
// pending run.
package daemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-co-op/gocron/v2"

	"github.com/modcabinet/cabinetsorter/internal/config"
	"github.com/modcabinet/cabinetsorter/internal/errors"
	"github.com/modcabinet/cabinetsorter/internal/logfields"
	"github.com/modcabinet/cabinetsorter/internal/pipeline"
)

// Daemon drives repeated pipeline runs.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	engine *pipeline.Engine

	trigger chan string
}

// New creates a daemon around a configured engine.
func New(cfg *config.Config, logger *slog.Logger, engine *pipeline.Engine) *Daemon {
	return &Daemon{
		cfg:     cfg,
		logger:  logger,
		engine:  engine,
		trigger: make(chan string, 1),
	}
}

// Run blocks until ctx is canceled. The first run happens immediately;
// afterwards runs fire on the poll interval and on debounced tree changes.
func (d *Daemon) Run(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, errors.SeverityFatal, "creating scheduler")
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(d.cfg.Daemon.PollInterval()),
		gocron.NewTask(func() { d.requestRun("interval") }),
		gocron.WithName("poll"),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, errors.SeverityFatal, "scheduling poll job")
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			d.logger.Error("scheduler shutdown failed", logfields.Error(err))
		}
	}()

	if d.cfg.Daemon.Watch {
		watcher, err := newTreeWatcher(d.cfg, d.logger, func() { d.requestRun("filesystem") })
		if err != nil {
			return err
		}
		defer watcher.Close()
		watcher.Start(ctx)
	}

	d.logger.Info("daemon started",
		slog.Duration("interval", d.cfg.Daemon.PollInterval()),
		slog.Bool("watch", d.cfg.Daemon.Watch))

	d.requestRun("startup")
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon stopping")
			return nil
		case reason := <-d.trigger:
			d.runOnce(ctx, reason)
		}
	}
}

// requestRun asks for a run without blocking. A run already pending absorbs
// the request.
func (d *Daemon) requestRun(reason string) {
	select {
	case d.trigger <- reason:
	default:
	}
}

func (d *Daemon) runOnce(ctx context.Context, reason string) {
	d.logger.Info("run triggered", slog.String("reason", reason))
	res, err := d.engine.Run(ctx, pipeline.RunOptions{})
	if err != nil {
		d.logger.Error("run failed", logfields.Error(err))
		return
	}
	if res.Skipped {
		return
	}
	d.logger.Info(fmt.Sprintf("run finished: %d mods, %d diagnostics", res.Mods, len(res.Diagnostics)),
		logfields.RunID(res.RunID))
}
