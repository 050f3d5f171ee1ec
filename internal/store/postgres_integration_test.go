//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/listing-notifier/internal/store"
	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

func setupPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("ln_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func openPostgres(t *testing.T, connStr, document string) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	s, err := store.NewPostgresStore(ctx, connStr, document)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestPostgresStore(t *testing.T) {
	connStr := setupPostgres(t)
	ctx := context.Background()
	s := openPostgres(t, connStr, "data/apts")

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, s.Ping(ctx))
	})

	t.Run("missing document reads as empty", func(t *testing.T) {
		got, err := s.GetSeenSet(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{}, got.Data)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, s.PutSeenSet(ctx, &domain.SeenSet{Data: []string{"a", "b"}}))

		got, err := s.GetSeenSet(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got.Data)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.PutSeenSet(ctx, &domain.SeenSet{Data: []string{"c"}}))

		got, err := s.GetSeenSet(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, got.Data)
	})

	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, s.Migrate(ctx))
	})

	t.Run("documents are independent", func(t *testing.T) {
		other := openPostgres(t, connStr, "data/other")

		got, err := other.GetSeenSet(ctx)
		require.NoError(t, err)
		assert.Empty(t, got.Data)
	})

	t.Run("concurrent writers never corrupt the document", func(t *testing.T) {
		var wg sync.WaitGroup
		for _, id := range []string{"w1", "w2", "w3", "w4"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				prior, err := s.GetSeenSet(ctx)
				assert.NoError(t, err)
				assert.NoError(t, s.PutSeenSet(ctx, prior.Union([]string{id})))
			}()
		}
		wg.Wait()

		got, err := s.GetSeenSet(ctx)
		require.NoError(t, err)
		assert.Contains(t, got.Data, "c")
		assert.NotEmpty(t, got.Data)
	})
}
