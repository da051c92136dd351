// Package store opens the repository.Store selected by the STORE_URL scheme.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/taskpulse/internal/config"
	boltInfra "github.com/fastygo/taskpulse/internal/infrastructure/bolt"
	mongoInfra "github.com/fastygo/taskpulse/internal/infrastructure/mongo"
	pgInfra "github.com/fastygo/taskpulse/internal/infrastructure/postgres"
	"github.com/fastygo/taskpulse/repository"
	boltRepo "github.com/fastygo/taskpulse/repository/bolt"
	"github.com/fastygo/taskpulse/repository/memory"
	mongoRepo "github.com/fastygo/taskpulse/repository/mongo"
	pgRepo "github.com/fastygo/taskpulse/repository/postgres"
)

// Open connects to the configured backend and prepares its schema: indexes
// for Mongo, migrations for Postgres, buckets for Bolt.
func Open(ctx context.Context, storeCfg config.StoreConfig, migrations config.MigrationsConfig, logger *zap.Logger) (repository.Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver, err := storeCfg.Driver()
	if err != nil {
		return nil, err
	}

	switch driver {
	case config.DriverMongo:
		client, db, err := mongoInfra.Connect(ctx, storeCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		s := mongoRepo.New(client, db)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(context.Background())
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return s, nil

	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(storeCfg, migrations, logger); err != nil {
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, storeCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return pgRepo.New(pool), nil

	case config.DriverBolt:
		path, err := boltInfra.PathFromURL(storeCfg.URL)
		if err != nil {
			return nil, err
		}
		s, err := boltRepo.Open(path)
		if err != nil {
			return nil, fmt.Errorf("bolt: %w", err)
		}
		logger.Info("opened bolt store", zap.String("path", path))
		return s, nil

	case config.DriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("store: unsupported driver %q", driver)
}
