package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CatalogStorage defines the full-snapshot persistence contract of the
// catalog. Save rewrites the complete record set in a single shot and
// Load returns the records in the exact order Save received them. There
// is no partial update: each mutating catalog operation is followed by
// one Save call holding the whole catalog.
type CatalogStorage interface {
	Load(ctx context.Context) ([]Book, error)
	Save(ctx context.Context, books []Book) error
	Close() error
}

// SetupStorage provides the catalog storage backend selected by configuration.
func SetupStorage(logger *zap.Logger, config *Config) (CatalogStorage, error) {
	switch config.Storage.Backend {
	case FileBackend:
		return NewFileCatalogStorage(logger, config.Storage.FilePath), nil
	case BoltBackend:
		client, err := GetBoltDBClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to open the boltdb database: %w", err)
		}
		return NewBoltCatalogStorage(logger, &config.BoltDB, client), nil
	case RedisBackend:
		client, err := GetRedisClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis server: %w", err)
		}
		return NewRedisCatalogStorage(logger, client), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", config.Storage.Backend)
	}
}
