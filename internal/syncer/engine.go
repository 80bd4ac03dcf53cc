package syncer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/starford/mindsync/internal/checksum"
	"github.com/starford/mindsync/internal/mindmap"
	"github.com/starford/mindsync/internal/models"
	"github.com/starford/mindsync/internal/storage"
)

// Snapshotter takes a backup of an outline before it is overwritten.
type Snapshotter interface {
	Snapshot(name string, content []byte, now time.Time) (string, error)
}

// Recorder receives one record per completed conversion.
type Recorder interface {
	Record(rec models.SyncRecord) error
}

// Result describes what SyncPair did for one pair.
type Result struct {
	Pair     models.Pair
	Decision Decision
	SyncedAt time.Time // zero when skipped
	Snapshot string    // backup file, ToText only
	BytesOut int
}

// Engine converts one document pair per call.
type Engine struct {
	store    storage.Provider
	backups  Snapshotter
	recorder Recorder
	template mindmap.Template
	palette  []string
	clock    func() time.Time
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRecorder journals every conversion.
func WithRecorder(r Recorder) EngineOption {
	return func(e *Engine) { e.recorder = r }
}

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) { e.clock = clock }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithTemplate replaces the embedded Minder template.
func WithTemplate(t mindmap.Template) EngineOption {
	return func(e *Engine) { e.template = t }
}

// NewEngine creates an engine that reads and writes pair files through store
// and snapshots outlines through backups.
func NewEngine(store storage.Provider, backups Snapshotter, palette []string, opts ...EngineOption) *Engine {
	e := &Engine{
		store:    store,
		backups:  backups,
		template: mindmap.DefaultTemplate(),
		palette:  palette,
		clock:    time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SyncPair brings one pair up to date relative to checkpoint. Missing files
// are created empty first and count as never modified for this call. A
// zero-byte graph is never decoded: the pair is skipped until one side
// gets content.
func (e *Engine) SyncPair(ctx context.Context, pair models.Pair, checkpoint time.Time) (Result, error) {
	res := Result{Pair: pair}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	text, err := e.stat(pair.TextPath)
	if err != nil {
		return res, err
	}
	graph, err := e.stat(pair.GraphPath)
	if err != nil {
		return res, err
	}

	res.Decision = Decide(text.ModTime, graph.ModTime, checkpoint)
	if res.Decision.Direction == models.DirectionToText && graph.Size == 0 {
		// An empty graph is a placeholder, not a document to decode.
		res.Decision = Decision{Direction: models.DirectionNone, Reason: ReasonGraphEmpty}
	}
	log := e.logger.With(
		slog.String("pair", pair.Name),
		slog.String("direction", res.Decision.Direction.String()),
		slog.String("reason", res.Decision.Reason))
	if res.Decision.Skipped() {
		log.Debug("sync: skipped")
		return res, nil
	}

	var out []byte
	switch res.Decision.Direction {
	case models.DirectionToGraph:
		out, err = e.toGraph(pair)
	case models.DirectionToText:
		out, res.Snapshot, err = e.toText(pair)
	}
	if err != nil {
		return res, err
	}

	res.SyncedAt = e.clock()
	res.BytesOut = len(out)
	if e.recorder != nil {
		rec := models.SyncRecord{
			Pair:      pair.Name,
			TextPath:  pair.TextPath,
			GraphPath: pair.GraphPath,
			Direction: res.Decision.Direction,
			Checksum:  checksum.Sum(out),
			SyncedAt:  res.SyncedAt,
		}
		if err := e.recorder.Record(rec); err != nil {
			return res, fmt.Errorf("syncer: %s: %w", pair.Name, err)
		}
	}
	log.Info("sync: converted",
		slog.Int("bytes", len(out)),
		slog.String("checksum", checksum.Short(out)))
	return res, nil
}

// stat returns the file's metadata, creating the file empty and reporting
// a zero FileInfo if it does not exist.
func (e *Engine) stat(path string) (storage.FileInfo, error) {
	info, err := e.store.Stat(path)
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return storage.FileInfo{}, fmt.Errorf("syncer: %w", err)
	}
	if err := e.store.Touch(path); err != nil {
		return storage.FileInfo{}, fmt.Errorf("syncer: create placeholder: %w", err)
	}
	e.logger.Info("sync: created empty placeholder", slog.String("path", path))
	return storage.FileInfo{Path: path}, nil
}

func (e *Engine) toGraph(pair models.Pair) ([]byte, error) {
	text, err := e.store.Read(pair.TextPath)
	if err != nil {
		return nil, fmt.Errorf("syncer: %w", err)
	}
	out, err := mindmap.FromOutline(e.template, string(text), pair.Name, e.palette)
	if err != nil {
		return nil, fmt.Errorf("syncer: encode %s: %w", pair.Name, err)
	}
	if err := e.store.Write(pair.GraphPath, out); err != nil {
		return nil, fmt.Errorf("syncer: %w", err)
	}
	return out, nil
}

// toText decodes the graph before touching the outline, so a malformed
// document leaves both the outline and the backup folder untouched.
func (e *Engine) toText(pair models.Pair) ([]byte, string, error) {
	graph, err := e.store.Read(pair.GraphPath)
	if err != nil {
		return nil, "", fmt.Errorf("syncer: %w", err)
	}
	text, err := mindmap.Decode(graph)
	if err != nil {
		return nil, "", fmt.Errorf("syncer: decode %s: %w", pair.GraphPath, err)
	}

	current, err := e.store.Read(pair.TextPath)
	if err != nil {
		return nil, "", fmt.Errorf("syncer: %w", err)
	}
	snapshot, err := e.backups.Snapshot(pair.Name, current, e.clock())
	if err != nil {
		return nil, "", fmt.Errorf("syncer: %w", err)
	}

	out := []byte(text)
	if err := e.store.Write(pair.TextPath, out); err != nil {
		return nil, "", fmt.Errorf("syncer: %w", err)
	}
	return out, snapshot, nil
}
