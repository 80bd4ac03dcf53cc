// Package journal provides a SQLite-backed history of conversions and an
// alternative home for the sync checkpoint.
package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sync_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	pair       TEXT    NOT NULL,
	text_path  TEXT    NOT NULL DEFAULT '',
	graph_path TEXT    NOT NULL DEFAULT '',
	direction  TEXT    NOT NULL,
	checksum   TEXT    NOT NULL DEFAULT '',
	synced_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sync_history_pair ON sync_history(pair, synced_at);

CREATE TABLE IF NOT EXISTS checkpoint (
	id        INTEGER PRIMARY KEY CHECK (id = 1),
	synced_at INTEGER NOT NULL
);
`

// DB wraps a sql.DB with journal-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("journal: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
