package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/mindsync/internal/checkpoint"
	"github.com/starford/mindsync/internal/models"
	"github.com/starford/mindsync/internal/storage"
)

// Pruner trims old backups after a sweep.
type Pruner interface {
	Prune() ([]string, error)
}

// Tracking locates the tracked-files list and the graph folder.
type Tracking struct {
	ListFile       string
	GraphFolder    string
	GraphExtension string
}

// Summary reports one sweep.
type Summary struct {
	Checkpoint time.Time `json:"checkpoint"`
	Pairs      int       `json:"pairs"`
	ToGraph    []string  `json:"to_graph"`
	ToText     []string  `json:"to_text"`
	Skipped    []string  `json:"skipped"`
	Pruned     []string  `json:"pruned"`
}

// Converted reports whether the sweep rewrote any file.
func (s Summary) Converted() bool {
	return len(s.ToGraph)+len(s.ToText) > 0
}

// Sweeper runs the engine over every tracked pair. Sweeps are serialized.
type Sweeper struct {
	mu          sync.Mutex
	engine      *Engine
	store       storage.Provider
	checkpoints checkpoint.Store
	pruner      Pruner
	tracking    Tracking
	logger      *slog.Logger
}

// NewSweeper creates a sweeper. pruner may be nil.
func NewSweeper(engine *Engine, store storage.Provider, checkpoints checkpoint.Store, pruner Pruner, tracking Tracking, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		engine:      engine,
		store:       store,
		checkpoints: checkpoints,
		pruner:      pruner,
		tracking:    tracking,
		logger:      logger,
	}
}

// Pairs returns the currently tracked pairs.
func (s *Sweeper) Pairs() ([]models.Pair, error) {
	return LoadPairs(s.store, s.tracking.ListFile, s.tracking.GraphFolder, s.tracking.GraphExtension)
}

// Sweep syncs every tracked pair once.
//
// The checkpoint is read once and every pair is judged against that value,
// so converting one pair cannot hide a pending edit in another. It is saved
// once per sweep, as the latest conversion time, and only if something was
// converted. An error aborts the rest of the sweep without pruning backups,
// but conversions completed before it are still checkpointed.
func (s *Sweeper) Sweep(ctx context.Context) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum Summary
	cp, err := s.checkpoints.Load()
	if err != nil {
		return sum, fmt.Errorf("syncer: load checkpoint: %w", err)
	}
	sum.Checkpoint = cp

	pairs, err := s.Pairs()
	if err != nil {
		return sum, err
	}
	sum.Pairs = len(pairs)

	var latest time.Time
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return sum, s.abort(&sum, latest, err)
		}
		res, err := s.engine.SyncPair(ctx, p, cp)
		if err != nil {
			return sum, s.abort(&sum, latest, fmt.Errorf("syncer: pair %s: %w", p.Name, err))
		}
		switch res.Decision.Direction {
		case models.DirectionToGraph:
			sum.ToGraph = append(sum.ToGraph, p.Name)
		case models.DirectionToText:
			sum.ToText = append(sum.ToText, p.Name)
		default:
			sum.Skipped = append(sum.Skipped, p.Name)
		}
		if res.SyncedAt.After(latest) {
			latest = res.SyncedAt
		}
	}

	if err := s.advance(&sum, latest); err != nil {
		return sum, err
	}

	if s.pruner != nil {
		pruned, err := s.pruner.Prune()
		if err != nil {
			return sum, err
		}
		sum.Pruned = pruned
	}

	s.logger.Info("sweep: done",
		slog.Int("pairs", sum.Pairs),
		slog.Int("to_graph", len(sum.ToGraph)),
		slog.Int("to_text", len(sum.ToText)),
		slog.Int("pruned", len(sum.Pruned)))
	return sum, nil
}

// advance saves latest as the new checkpoint. A zero latest means nothing
// was converted and leaves the checkpoint alone.
func (s *Sweeper) advance(sum *Summary, latest time.Time) error {
	if latest.IsZero() {
		return nil
	}
	if err := s.checkpoints.Save(latest); err != nil {
		return fmt.Errorf("syncer: save checkpoint: %w", err)
	}
	sum.Checkpoint = latest
	return nil
}

// abort checkpoints the conversions that completed before cause and
// returns cause, joined with any save failure.
func (s *Sweeper) abort(sum *Summary, latest time.Time, cause error) error {
	if err := s.advance(sum, latest); err != nil {
		return errors.Join(cause, err)
	}
	s.logger.Warn("sweep: aborted",
		slog.Int("to_graph", len(sum.ToGraph)),
		slog.Int("to_text", len(sum.ToText)),
		slog.String("error", cause.Error()))
	return cause
}
