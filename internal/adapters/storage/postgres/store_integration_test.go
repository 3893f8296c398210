//go:build integration
// +build integration

// Para gopls: "buildFlags": ["-tags=integration"]

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pg "adoptme/internal/adapters/storage/postgres"
	"adoptme/internal/ports/store"
	"adoptme/internal/ports/store/storetest"
)

func setupPostgres(t *testing.T) *pg.Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("adoptme_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := pg.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, pg.Migrate(ctx, db))

	s := pg.NewStore(db)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestPostgresStoreConformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	s := setupPostgres(t)

	storetest.Run(t, func(t *testing.T) store.Store {
		require.NoError(t, s.Truncate(context.Background()))
		return s
	})
}
