// Package sqlite is the embedded SQLite storage backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"leaflet/internal/storage"
	"leaflet/pkg/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	position   INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT    NOT NULL UNIQUE,
	text       TEXT    NOT NULL,
	category   TEXT    NOT NULL,
	priority   TEXT    NOT NULL,
	completed  INTEGER NOT NULL DEFAULT 0,
	created_at TEXT    NOT NULL,
	rotation   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS preferences (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

INSERT OR IGNORE INTO preferences (key, value) VALUES ('theme', '"light"');
`

type implStore struct {
	db *sql.DB
	l  log.Logger
}

// New opens (creating if needed) the database at path and applies the schema.
func New(ctx context.Context, path string, l log.Logger) (storage.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection serializes writers; SQLite allows a single writer anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	l.Infof(ctx, "sqlite storage ready at %s", path)
	return &implStore{db: db, l: l}, nil
}

func (s *implStore) Close() error {
	return s.db.Close()
}

func (s *implStore) dsn(method string) string {
	return fmt.Sprintf("storage/sqlite.%s", method)
}
