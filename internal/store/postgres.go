package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

const (
	queryGetDocument = `SELECT body FROM documents WHERE name = $1`

	queryPutDocument = `
		INSERT INTO documents (name, body, updated_at)
		VALUES (@name, @body, now())
		ON CONFLICT (name) DO UPDATE
		SET body = EXCLUDED.body, updated_at = now()`
)

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool     *pgxpool.Pool
	document string
}

// NewPostgresStore creates a new PostgresStore with connection pooling. The
// seen-set is kept in the documents row named document.
func NewPostgresStore(ctx context.Context, connString, document string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool, document: document}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// GetSeenSet implements Store.
func (s *PostgresStore) GetSeenSet(ctx context.Context) (*domain.SeenSet, error) {
	var body []byte
	err := s.pool.QueryRow(ctx, queryGetDocument, s.document).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return decodeSeenSet(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", s.document, err)
	}
	return decodeSeenSet(body)
}

// PutSeenSet implements Store.
func (s *PostgresStore) PutSeenSet(ctx context.Context, set *domain.SeenSet) error {
	body, err := encodeSeenSet(set)
	if err != nil {
		return err
	}

	args := pgx.NamedArgs{
		"name": s.document,
		"body": string(body),
	}
	if _, err := s.pool.Exec(ctx, queryPutDocument, args); err != nil {
		return fmt.Errorf("writing document %s: %w", s.document, err)
	}
	return nil
}
