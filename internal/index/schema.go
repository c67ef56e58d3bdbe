// Package index exports validation snapshots into SQLite and watches the
// corpus for changes.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	id       TEXT PRIMARY KEY,
	label    TEXT NOT NULL,
	path     TEXT NOT NULL,
	checksum TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS relations (
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	kind   TEXT NOT NULL,
	UNIQUE(source, target, kind)
);

CREATE INDEX IF NOT EXISTS idx_relations_source ON relations(source);
CREATE INDEX IF NOT EXISTS idx_relations_target ON relations(target);

CREATE TABLE IF NOT EXISTS findings (
	seq        INTEGER PRIMARY KEY,
	severity   TEXT NOT NULL,
	check_name TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT '',
	kind       TEXT NOT NULL DEFAULT '',
	target     TEXT NOT NULL DEFAULT '',
	cycle      TEXT NOT NULL DEFAULT '[]',
	file       TEXT NOT NULL DEFAULT '',
	message    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS summary (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// DB wraps a sql.DB with snapshot operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
