package journal

import (
	"fmt"
	"time"

	"github.com/starford/mindsync/internal/models"
)

const defaultHistoryLimit = 20

// Record appends one conversion to the history.
func (db *DB) Record(rec models.SyncRecord) error {
	_, err := db.conn.Exec(`
		INSERT INTO sync_history (pair, text_path, graph_path, direction, checksum, synced_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.Pair, rec.TextPath, rec.GraphPath, rec.Direction.String(), rec.Checksum, rec.SyncedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("journal: record: %w", err)
	}
	return nil
}

// History returns the most recent conversions, newest first. An empty pair
// selects every pair; limit <= 0 uses a default.
func (db *DB) History(pair string, limit int) ([]models.SyncRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := db.conn.Query(`
		SELECT id, pair, text_path, graph_path, direction, checksum, synced_at
		FROM sync_history
		WHERE ? = '' OR pair = ?
		ORDER BY synced_at DESC, id DESC
		LIMIT ?
	`, pair, pair, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: history: %w", err)
	}
	defer rows.Close()

	var out []models.SyncRecord
	for rows.Next() {
		var (
			r         models.SyncRecord
			direction string
			syncedAt  int64
		)
		if err := rows.Scan(&r.ID, &r.Pair, &r.TextPath, &r.GraphPath, &direction, &r.Checksum, &syncedAt); err != nil {
			return nil, err
		}
		r.Direction = models.ParseDirection(direction)
		r.SyncedAt = time.Unix(0, syncedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}
