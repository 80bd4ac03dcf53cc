package internal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/starford/mindsync/internal/backup"
	"github.com/starford/mindsync/internal/checkpoint"
	"github.com/starford/mindsync/internal/journal"
	"github.com/starford/mindsync/internal/mcpserver"
	"github.com/starford/mindsync/internal/mindmap"
	"github.com/starford/mindsync/internal/storage"
	"github.com/starford/mindsync/internal/syncer"
)

// newApplication applies opts and checks that a config was given.
func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	app.watch = app.watch || app.config.App.Watch
	return app, nil
}

// newLogger builds the structured JSON logger and installs it as default.
// Logs go to the writer given by WithLogOutput, else to the rotating
// app.log_file, else to fallback. The returned func closes the log file.
func newLogger(app *application, fallback io.Writer) (*slog.Logger, func()) {
	w, closeFn := app.logOutput, func() {}
	if w == nil && app.config.App.LogFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   app.config.App.LogFile,
			MaxSize:    app.config.App.LogMaxSizeMB,
			MaxBackups: app.config.App.LogMaxBackups,
		}
		w, closeFn = rotating, func() { _ = rotating.Close() }
	}
	if w == nil {
		w = fallback
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger, closeFn
}

// runtime holds the wired sync components for one process.
type runtime struct {
	store    *storage.FS
	journal  *journal.DB // nil when disabled
	template mindmap.Template
	sweeper  *syncer.Sweeper
}

func newRuntime(cfg *Config, logger *slog.Logger) (*runtime, error) {
	rt := &runtime{store: storage.NewLocal()}

	tmpl, err := loadTemplate(cfg.Tracking.TemplatePath)
	if err != nil {
		return nil, err
	}
	rt.template = tmpl

	if cfg.Journal.Enabled() {
		db, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("init journal: %w", err)
		}
		rt.journal = db
	}

	checkpoints, err := rt.checkpointStore(cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rotator, err := backup.NewRotator(cfg.Backup.Folder, cfg.Backup.MaxFiles, logger)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("init backups: %w", err)
	}

	engineOpts := []syncer.EngineOption{
		syncer.WithLogger(logger),
		syncer.WithTemplate(tmpl),
	}
	if rt.journal != nil {
		engineOpts = append(engineOpts, syncer.WithRecorder(rt.journal))
	}
	engine := syncer.NewEngine(rt.store, rotator, cfg.Palette, engineOpts...)

	rt.sweeper = syncer.NewSweeper(engine, rt.store, checkpoints, rotator, syncer.Tracking{
		ListFile:       cfg.Tracking.ListFile,
		GraphFolder:    cfg.Tracking.GraphFolder,
		GraphExtension: cfg.Tracking.GraphExtension,
	}, logger)
	return rt, nil
}

func (rt *runtime) checkpointStore(cfg *Config) (checkpoint.Store, error) {
	switch cfg.Checkpoint.Driver {
	case CheckpointDriverSQLite:
		if rt.journal == nil {
			return nil, errors.New("checkpoint: sqlite driver requires the journal")
		}
		return rt.journal, nil
	default:
		return checkpoint.NewFile(cfg.Checkpoint.Path, rt.store), nil
	}
}

// historyReader returns the journal, or nil if it is disabled. The explicit
// nil keeps a nil *journal.DB out of the interface.
func (rt *runtime) historyReader() mcpserver.HistoryReader {
	if rt.journal == nil {
		return nil
	}
	return rt.journal
}

// Close releases the journal.
func (rt *runtime) Close() {
	if rt.journal != nil {
		_ = rt.journal.Close()
	}
}

func loadTemplate(path string) (mindmap.Template, error) {
	if path == "" {
		return mindmap.DefaultTemplate(), nil
	}
	tmpl, err := mindmap.LoadTemplate(path)
	if err != nil {
		return mindmap.Template{}, fmt.Errorf("load template: %w", err)
	}
	return tmpl, nil
}
