package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
    name       TEXT PRIMARY KEY,
    body       TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db       *sql.DB
	document string
}

// NewSQLiteStore opens (creating if needed) the SQLite database at path.
// Pass ":memory:" for a throwaway database.
func NewSQLiteStore(ctx context.Context, path, document string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	return &SQLiteStore{db: db, document: document}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the documents table.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	return nil
}

// GetSeenSet implements Store.
func (s *SQLiteStore) GetSeenSet(ctx context.Context) (*domain.SeenSet, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE name = ?`, s.document,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return decodeSeenSet(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", s.document, err)
	}
	return decodeSeenSet([]byte(body))
}

// PutSeenSet implements Store.
func (s *SQLiteStore) PutSeenSet(ctx context.Context, set *domain.SeenSet) error {
	body, err := encodeSeenSet(set)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents(name, body, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		s.document, string(body), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing document %s: %w", s.document, err)
	}
	return nil
}
