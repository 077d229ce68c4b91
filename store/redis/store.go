// Package redis implements the watcher registry on Redis through Grove KV.
//
// Each watcher is a JSON document under herald:wch:<id>. A SET NX key per
// login enforces uniqueness and a sorted set scored by creation time keeps
// the listing order.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/xraph/grove/kv"
	"github.com/xraph/grove/kv/drivers/redisdriver"

	"github.com/xraph/herald"
	heraldstore "github.com/xraph/herald/store"
)

var _ heraldstore.Store = (*Store)(nil)

// Store implements store.Store on a Grove KV store with a Redis driver.
type Store struct {
	kv  *kv.Store
	rdb goredis.UniversalClient
}

// New wraps an open KV store. It panics if the store is not Redis backed.
func New(store *kv.Store) *Store {
	return &Store{
		kv:  store,
		rdb: redisdriver.UnwrapClient(store),
	}
}

// Migrate is a no-op; Redis needs no schema.
func (s *Store) Migrate(context.Context) error { return nil }

func (s *Store) Ping(ctx context.Context) error { return s.kv.Ping(ctx) }

func (s *Store) Close() error { return s.kv.Close() }

// load reads the watcher document at key. A missing key maps to
// herald.ErrWatcherNotFound.
func (s *Store) load(ctx context.Context, key string) (*watcherModel, error) {
	raw, err := s.kv.GetRaw(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, herald.ErrWatcherNotFound
	}
	if err != nil {
		return nil, err
	}
	m := new(watcherModel)
	if err := json.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("herald/redis: decode %s: %w", key, err)
	}
	return m, nil
}

func (s *Store) save(ctx context.Context, m *watcherModel) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("herald/redis: encode watcher: %w", err)
	}
	return s.kv.SetRaw(ctx, watcherKey(m.ID), raw)
}
