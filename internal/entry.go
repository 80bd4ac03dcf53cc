// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/mindsync/internal/journal"
	"github.com/starford/mindsync/internal/mcpserver"
	"github.com/starford/mindsync/internal/models"
	"github.com/starford/mindsync/internal/syncer"
	"github.com/starford/mindsync/internal/watch"
)

// Run performs the scheduled sweeps, plus watcher-triggered ones when
// watching is enabled, until the schedule ends or a signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger, closeLog := newLogger(app, os.Stdout)
	defer closeLog()
	logger.Info("Configuration loaded",
		slog.String("list_file", cfg.Tracking.ListFile),
		slog.String("graph_folder", cfg.Tracking.GraphFolder),
		slog.String("backup_folder", cfg.Backup.Folder),
		slog.String("checkpoint_driver", cfg.Checkpoint.Driver),
		slog.String("journal_path", cfg.Journal.Path),
		slog.Bool("watch", app.watch),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rt, err := newRuntime(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	r := &runner{
		sweeper:  rt.sweeper,
		interval: cfg.App.Interval,
		sweeps:   cfg.App.Sweeps,
		hold:     app.watch,
		triggers: make(chan struct{}, 1),
		logger:   logger,
	}
	if app.once {
		r.sweeps = 1
		r.hold = false
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(runCtx)

	if r.hold {
		pairs, err := rt.sweeper.Pairs()
		if err != nil {
			return err
		}
		paths := make([]string, 0, len(pairs)*2)
		for _, p := range pairs {
			paths = append(paths, p.TextPath, p.GraphPath)
		}
		// The first sweep creates missing pair files; their folders must
		// exist before the watcher registers them.
		for _, p := range paths {
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				return fmt.Errorf("create watched folder: %w", err)
			}
		}
		g.Go(func() error {
			return watch.Watch(gCtx, paths, cfg.App.Debounce, logger, func(context.Context) {
				r.trigger()
			})
		})
	}

	g.Go(func() error {
		defer cancel()
		return r.loop(gCtx)
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Stopped successfully")
	return nil
}

// runner owns the goroutine that performs every sweep.
type runner struct {
	sweeper  *syncer.Sweeper
	interval time.Duration
	sweeps   int  // 0 = until cancelled
	hold     bool // keep serving triggers after the schedule ends
	triggers chan struct{}
	logger   *slog.Logger
}

// trigger requests an extra sweep. Requests made while one is already
// pending are merged.
func (r *runner) trigger() {
	select {
	case r.triggers <- struct{}{}:
	default:
	}
}

func (r *runner) loop(ctx context.Context) error {
	done := 0
	for {
		if err := r.sweep(ctx); err != nil {
			return err
		}
		done++
		if r.sweeps > 0 && done >= r.sweeps {
			break
		}
		if ok, err := r.wait(ctx, time.After(r.interval)); !ok {
			return err
		}
	}
	if !r.hold {
		return nil
	}
	_, err := r.wait(ctx, nil)
	return err
}

// wait blocks until next fires, running a sweep for every trigger that
// arrives first. It reports false once ctx is done or a sweep failed.
func (r *runner) wait(ctx context.Context, next <-chan time.Time) (bool, error) {
	for {
		select {
		case <-ctx.Done():
			return false, nil
		case <-next:
			return true, nil
		case <-r.triggers:
			r.logger.Debug("running triggered sweep")
			if err := r.sweep(ctx); err != nil {
				return false, err
			}
		}
	}
}

func (r *runner) sweep(ctx context.Context) error {
	_, err := r.sweeper.Sweep(ctx)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// ServeMCP serves the MCP tools on stdio until the client disconnects.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger, closeLog := newLogger(app, os.Stderr)
	defer closeLog()

	rt, err := newRuntime(app.config, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	srv := mcpserver.New(rt.sweeper, rt.historyReader(), rt.template, app.config.Palette, app.version)
	logger.Info("MCP server starting on stdio")
	return srv.ServeStdio()
}

// History returns journaled conversions, newest first.
func History(pair string, limit int, opts ...Option) ([]models.SyncRecord, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	if !app.config.Journal.Enabled() {
		return nil, fmt.Errorf("journal is disabled")
	}
	db, err := journal.Open(app.config.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}
	defer db.Close()
	return db.History(pair, limit)
}
