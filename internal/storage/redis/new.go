// Package redis is the Redis storage backend. Tasks live in a hash keyed by
// id with a companion list that carries insertion order; preferences live in
// a hash of JSON-encoded values.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"leaflet/internal/storage"
	"leaflet/pkg/log"
)

const (
	defaultPrefix = "leaflet"
	// maxTxRetries bounds WATCH/MULTI retries under contention.
	maxTxRetries = 16
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type implStore struct {
	rdb *goredis.Client
	l   log.Logger

	tasksKey string
	orderKey string
	prefsKey string
}

// New connects to Redis and seeds default preferences if none exist.
func New(ctx context.Context, opt Options, l log.Logger) (storage.Store, error) {
	prefix := opt.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opt.Addr, err)
	}

	s := &implStore{
		rdb:      rdb,
		l:        l,
		tasksKey: prefix + ":tasks",
		orderKey: prefix + ":tasks:order",
		prefsKey: prefix + ":preferences",
	}
	if err := rdb.HSetNX(ctx, s.prefsKey, "theme", `"light"`).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to seed preferences: %w", err)
	}

	l.Infof(ctx, "redis storage ready at %s (prefix %s)", opt.Addr, prefix)
	return s, nil
}

func (s *implStore) Close() error {
	return s.rdb.Close()
}

func (s *implStore) dsn(method string) string {
	return fmt.Sprintf("storage/redis.%s", method)
}

// watch runs fn in a WATCH/MULTI transaction over keys, retrying when a
// concurrent writer invalidates the watch.
func (s *implStore) watch(ctx context.Context, fn func(tx *goredis.Tx) error, keys ...string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := s.rdb.Watch(ctx, fn, keys...)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return err
	}
	return goredis.TxFailedErr
}
