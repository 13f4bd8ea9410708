// Package sqlitestore provides an embedded single-file implementation of
// the domain store contract, for local use without a PostgreSQL server. It
// uses the pure-Go modernc.org/sqlite driver through database/sql.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/latticekb/lattice/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
    id          TEXT PRIMARY KEY,
    node_type   TEXT NOT NULL,
    name        TEXT NOT NULL,
    content     TEXT NOT NULL DEFAULT '',
    summary     TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL,
    modified_at TEXT NOT NULL,
    folder      TEXT NOT NULL DEFAULT '',
    tags        TEXT NOT NULL DEFAULT '[]',
    source      TEXT NOT NULL,
    source_id   TEXT NOT NULL,
    source_url  TEXT NOT NULL DEFAULT '',
    latitude    REAL,
    longitude   REAL,
    priority    INTEGER NOT NULL DEFAULT 0,
    importance  INTEGER NOT NULL DEFAULT 0,
    sort_order  INTEGER NOT NULL DEFAULT 0,
    version     INTEGER NOT NULL DEFAULT 1
);

CREATE UNIQUE INDEX IF NOT EXISTS nodes_identity ON nodes (source, source_id);
CREATE INDEX IF NOT EXISTS nodes_type_modified ON nodes (node_type, modified_at);

CREATE TABLE IF NOT EXISTS edges (
    source_id      TEXT NOT NULL REFERENCES nodes (id) ON DELETE CASCADE,
    target_id      TEXT NOT NULL REFERENCES nodes (id) ON DELETE CASCADE,
    edge_type      TEXT NOT NULL,
    label          TEXT NOT NULL DEFAULT '',
    weight         REAL NOT NULL DEFAULT 1.0,
    directed       INTEGER NOT NULL DEFAULT 1,
    sequence_order INTEGER,
    created_at     TEXT NOT NULL,
    PRIMARY KEY (source_id, target_id, edge_type)
);

CREATE INDEX IF NOT EXISTS edges_target ON edges (target_id);
`

// Store is a SQLite-backed domain.Store.
type Store struct {
	conn *sql.DB
	log  *logrus.Logger
}

var _ domain.Store = (*Store)(nil)

// Open opens (or creates) the database at path with WAL mode and foreign
// keys enabled, applying the schema.
func Open(path string, log *logrus.Logger) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL keeps readers unblocked during ingestion writes.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()

		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()

		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()

		return nil, fmt.Errorf("applying schema: %w", err)
	}

	log.WithField("path", path).Debug("opened sqlite store")

	return &Store{conn: conn, log: log}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// HealthCheck verifies the database file is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}
