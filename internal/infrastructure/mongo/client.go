package mongo

import (
	"context"
	"fmt"
	"time"

	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"go.uber.org/zap"

	"github.com/fastygo/taskpulse/internal/config"
)

// Connect dials MongoDB, verifies the primary is reachable and returns the
// client together with the database to use. A database named in the URL path
// wins over cfg.Database.
func Connect(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (*mongodrv.Client, *mongodrv.Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cs, err := connstring.ParseAndValidate(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse mongo url: %w", err)
	}
	dbName := cs.Database
	if dbName == "" {
		dbName = cfg.Database
	}

	opts := options.Client().
		ApplyURI(cfg.URL).
		SetAppName("taskpulse")
	if cfg.ConnectTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ConnectTimeout)
	}
	if cfg.MaxConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxConns))
	}
	if cfg.MinConns > 0 {
		opts.SetMinPoolSize(uint64(cfg.MinConns))
	}
	if cfg.MaxConnIdleTime > 0 {
		opts.SetMaxConnIdleTime(cfg.MaxConnIdleTime)
	}

	client, err := mongodrv.Connect(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	logger.Info("connected to mongodb", zap.Strings("hosts", cs.Hosts), zap.String("db", dbName))
	return client, client.Database(dbName), nil
}
