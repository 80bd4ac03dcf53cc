// Package models defines the domain types for mindsync.
package models

import "time"

// Direction names which side of a pair a sync rewrote.
type Direction int

const (
	// DirectionNone means the pair was skipped.
	DirectionNone Direction = iota
	// DirectionToGraph means the graph document was regenerated from the outline.
	DirectionToGraph
	// DirectionToText means the outline was regenerated from the graph document.
	DirectionToText
)

// String returns the journal spelling of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionToGraph:
		return "to_graph"
	case DirectionToText:
		return "to_text"
	default:
		return "none"
	}
}

// ParseDirection is the inverse of String. Unknown values map to DirectionNone.
func ParseDirection(s string) Direction {
	switch s {
	case "to_graph":
		return DirectionToGraph
	case "to_text":
		return DirectionToText
	default:
		return DirectionNone
	}
}

// MarshalText lets directions render as strings in JSON output.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Pair associates an outline file with its mind-map document.
type Pair struct {
	Name      string `json:"name"`
	TextPath  string `json:"text_path"`
	GraphPath string `json:"graph_path"`
}

// SyncRecord is one completed conversion as stored in the journal.
type SyncRecord struct {
	ID        int64     `json:"id"`
	Pair      string    `json:"pair"`
	TextPath  string    `json:"text_path"`
	GraphPath string    `json:"graph_path"`
	Direction Direction `json:"direction"`
	Checksum  string    `json:"checksum"`
	SyncedAt  time.Time `json:"synced_at"`
}
