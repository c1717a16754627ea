package main

import (
	"context"
	"fmt"

	"leaflet/config"
	"leaflet/internal/storage"
	"leaflet/internal/storage/jsonfile"
	"leaflet/internal/storage/redis"
	"leaflet/internal/storage/sqlite"
	"leaflet/pkg/log"
)

// openStore picks the storage backend named by storage.driver.
func openStore(ctx context.Context, cfg config.StorageConfig, l log.Logger) (storage.Store, error) {
	switch cfg.Driver {
	case config.StorageDriverJSONFile:
		return jsonfile.New(ctx, cfg.DataDir, l)
	case config.StorageDriverSQLite:
		return sqlite.New(ctx, cfg.SQLite.Path, l)
	case config.StorageDriverRedis:
		return redis.New(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		}, l)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
