package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/mindsync/internal/checkpoint"
)

// Load returns the stored checkpoint, or the zero time if none was saved.
func (db *DB) Load() (time.Time, error) {
	var ns int64
	err := db.conn.QueryRow(`SELECT synced_at FROM checkpoint WHERE id = 1`).Scan(&ns)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("journal: load checkpoint: %w", err)
	}
	return time.Unix(0, ns), nil
}

// Save replaces the stored checkpoint.
func (db *DB) Save(t time.Time) error {
	_, err := db.conn.Exec(`
		INSERT INTO checkpoint (id, synced_at) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET synced_at = excluded.synced_at
	`, t.UnixNano())
	if err != nil {
		return fmt.Errorf("journal: save checkpoint: %w", err)
	}
	return nil
}

var _ checkpoint.Store = (*DB)(nil)
