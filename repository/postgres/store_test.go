package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fastygo/taskpulse/internal/config"
	pgInfra "github.com/fastygo/taskpulse/internal/infrastructure/postgres"
	"github.com/fastygo/taskpulse/repository"
	"github.com/fastygo/taskpulse/repository/repotest"
)

// Runs against a live server only when TASKPULSE_TEST_POSTGRES_URL is set.
// The schema is migrated from assets/migrations and both tables are
// truncated before every subtest.
func TestStoreContract(t *testing.T) {
	url := os.Getenv("TASKPULSE_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TASKPULSE_TEST_POSTGRES_URL not set")
	}

	storeCfg := config.StoreConfig{URL: url}
	require.NoError(t, pgInfra.RunMigrations(storeCfg, config.MigrationsConfig{
		Enabled: true,
		Path:    "../../assets/migrations",
	}, zap.NewNop()))

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repotest.Run(t, func(t *testing.T) repository.Store {
		_, err := pool.Exec(context.Background(), `TRUNCATE tasks, users`)
		require.NoError(t, err)
		return &sharedPoolStore{Store: New(pool)}
	})
}

type sharedPoolStore struct{ *Store }

func (s *sharedPoolStore) Close(context.Context) error { return nil }
