package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/modcabinet/cabinetsorter/internal/cache"
	"github.com/modcabinet/cabinetsorter/internal/category"
	"github.com/modcabinet/cabinetsorter/internal/config"
	"github.com/modcabinet/cabinetsorter/internal/daemon"
	"github.com/modcabinet/cabinetsorter/internal/logfields"
	"github.com/modcabinet/cabinetsorter/internal/metrics"
	"github.com/modcabinet/cabinetsorter/internal/observability"
	"github.com/modcabinet/cabinetsorter/internal/pipeline"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Run struct {
		Force bool `short:"f" help:"Reprocess every directory even when unchanged"`
		NoGit bool `help:"Skip pulling trees before the run"`
	} `cmd:"" help:"Run one full pass over the configured mods trees"`

	Daemon struct{} `cmd:"" help:"Run continuously, polling and watching the trees"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	kctx := kong.Parse(&CLI)

	switch kctx.Command() {
	case "run":
		if err := runOnce(CLI.Run.Force, CLI.Run.NoGit); err != nil {
			slog.Error("Run failed", logfields.Error(err))
			os.Exit(1)
		}
	case "daemon":
		if err := runDaemon(); err != nil {
			slog.Error("Daemon failed", logfields.Error(err))
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", logfields.Error(err))
			os.Exit(1)
		}
	}
}

// setup loads the configuration and builds the engine plus everything it
// depends on. The returned cleanup closes the cache store.
func setup(ctx context.Context) (*config.Config, *pipeline.Engine, *slog.Logger, func(), error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	level := cfg.Logging.Level
	if CLI.Verbose {
		level = "debug"
	}
	logger := observability.SetupLogging(level, cfg.Logging.Format)

	var registry *category.Registry
	if cfg.Categories.File != "" {
		registry, err = category.Load(cfg.Categories.File)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		logger.Info("category registry loaded",
			slog.String("file", cfg.Categories.File),
			logfields.Count(registry.Len()))
	} else {
		registry = category.Default()
	}

	store, err := cache.NewSQLiteStore(cfg.Cache.Path)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("opening cache: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing cache store failed", logfields.Error(err))
		}
	}

	var options []pipeline.Option
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		options = append(options, pipeline.WithRecorder(metrics.NewPrometheusRecorder(reg)))
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Listen, reg, logger); err != nil {
				logger.Error("metrics endpoint failed", logfields.Error(err))
			}
		}()
	}

	engine := pipeline.New(cfg, logger, registry, store, options...)
	return cfg, engine, logger, cleanup, nil
}

func runOnce(force, noGit bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_, engine, logger, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := engine.Run(ctx, pipeline.RunOptions{Force: force, NoGit: noGit})
	if err != nil {
		return err
	}
	if res.Skipped {
		logger.Info("nothing to do")
		return nil
	}
	logger.Info("done",
		slog.Int("mods", res.Mods),
		slog.Int("diagnostics", len(res.Diagnostics)),
		slog.Int("errored", res.Errored))
	return nil
}

func runDaemon() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, engine, logger, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	return daemon.New(cfg, logger, engine).Run(ctx)
}
