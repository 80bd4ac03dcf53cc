// Package syncer decides, per document pair, which side is stale and
// regenerates it from the other.
package syncer

import (
	"time"

	"github.com/starford/mindsync/internal/models"
)

// Guard is added to the checkpoint before comparing modification times, to
// absorb clock and processing skew.
const Guard = 5 * time.Second

// Skip reasons.
const (
	ReasonBothEmpty  = "both files empty"
	ReasonUnchanged  = "unchanged since checkpoint"
	ReasonTextNewer  = "text newer than graph"
	ReasonGraphNewer = "graph not older than text"
	ReasonGraphEmpty = "graph file empty"
)

// Decision is the outcome of comparing a pair's modification times.
type Decision struct {
	Direction models.Direction
	Reason    string
}

// Skipped reports whether the pair needs no work.
func (d Decision) Skipped() bool {
	return d.Direction == models.DirectionNone
}

// Decide picks the sync direction for a pair. A zero mtime stands for a
// file that was missing and has just been created empty.
//
// The newer side wins by strict comparison; equal mtimes regenerate the
// text from the graph.
func Decide(textMod, graphMod, checkpoint time.Time) Decision {
	if textMod.IsZero() && graphMod.IsZero() {
		return Decision{Direction: models.DirectionNone, Reason: ReasonBothEmpty}
	}
	guard := checkpoint.Add(Guard)
	if !textMod.After(guard) && !graphMod.After(guard) {
		return Decision{Direction: models.DirectionNone, Reason: ReasonUnchanged}
	}
	if textMod.After(graphMod) {
		return Decision{Direction: models.DirectionToGraph, Reason: ReasonTextNewer}
	}
	return Decision{Direction: models.DirectionToText, Reason: ReasonGraphNewer}
}
