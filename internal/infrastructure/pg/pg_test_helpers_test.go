package pg_test

import (
	"context"
	"os"
	"testing"
	"time"

	"rateoracle-service/internal/infrastructure/pg"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func withPostgres(t *testing.T) (*pg.DB, func()) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	// an external database is reset table by table instead of thrown away
	if dsn := os.Getenv("PG_TEST_DATABASE_URL"); dsn != "" {
		db, err := pg.Connect(ctx, dsn)
		require.NoError(t, err)
		require.NoError(t, pg.RunMigrations(ctx, db))
		_, err = db.Pool.Exec(ctx, `TRUNCATE rates, oracle_state`)
		require.NoError(t, err)
		return db, db.Close
	}
	if os.Getenv("TESTCONTAINERS") == "" {
		t.Skip("set TESTCONTAINERS=1 or PG_TEST_DATABASE_URL to run PG tests")
	}

	container, err := postgres.RunContainer(ctx,
		postgres.WithDatabase("rateoracle"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
	)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := pg.Connect(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, pg.RunMigrations(ctx, db))

	teardown := func() {
		db.Close()
		_ = container.Terminate(context.Background())
	}
	return db, teardown
}
