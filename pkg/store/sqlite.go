package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS databases (
    key            TEXT PRIMARY KEY,
    engine_version TEXT NOT NULL,
    created_at     INTEGER NOT NULL,
    data           BLOB NOT NULL
);`

// SQLiteStore persists entries in a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a store at path, creating the schema if needed. Use
// ":memory:" for an in-memory database (useful for testing).
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating store schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Put inserts or replaces an entry.
func (s *SQLiteStore) Put(e *Entry) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO databases (key, engine_version, created_at, data) VALUES (?, ?, ?, ?)",
		e.Key, e.EngineVersion, e.CreatedAt.Unix(), e.Data)
	if err != nil {
		return fmt.Errorf("storing database %s: %w", e.Key, err)
	}
	return nil
}

// Get returns the entry for key, or nil when absent.
func (s *SQLiteStore) Get(key string) (*Entry, error) {
	row := s.db.QueryRow(
		"SELECT engine_version, created_at, data FROM databases WHERE key = ?", key)
	e := &Entry{Key: key}
	var created int64
	if err := row.Scan(&e.EngineVersion, &created, &e.Data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading database %s: %w", key, err)
	}
	e.CreatedAt = time.Unix(created, 0)
	return e, nil
}

// Delete removes key.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM databases WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting database %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
