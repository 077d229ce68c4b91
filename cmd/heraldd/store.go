package main

import (
	"context"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/kv"
	"github.com/xraph/grove/kv/drivers/redisdriver"

	"github.com/xraph/herald/internal/config"
	"github.com/xraph/herald/store"
	"github.com/xraph/herald/store/memory"
	mongostore "github.com/xraph/herald/store/mongo"
	pgstore "github.com/xraph/herald/store/postgres"
	redisstore "github.com/xraph/herald/store/redis"
	sqlitestore "github.com/xraph/herald/store/sqlite"
)

// openStore connects the configured watcher registry and brings its schema
// up to date. The caller owns the returned store and must Close it.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	s, err := connectStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func connectStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case "", config.StoreMemory:
		return memory.New(), nil

	case config.StoreSQLite:
		drv := sqlitedriver.New()
		if err := drv.Open(ctx, cfg.DSN); err != nil {
			return nil, err
		}
		db, err := grove.Open(drv)
		if err != nil {
			_ = drv.Close()
			return nil, err
		}
		return sqlitestore.New(db), nil

	case config.StorePostgres:
		drv := pgdriver.New()
		if err := drv.Open(ctx, cfg.DSN); err != nil {
			return nil, err
		}
		db, err := grove.Open(drv)
		if err != nil {
			_ = drv.Close()
			return nil, err
		}
		return pgstore.New(db), nil

	case config.StoreMongo:
		drv := mongodriver.New()
		if err := drv.Open(ctx, cfg.DSN); err != nil {
			return nil, err
		}
		db, err := grove.Open(drv)
		if err != nil {
			_ = drv.Close()
			return nil, err
		}
		return mongostore.New(db), nil

	case config.StoreRedis:
		drv := redisdriver.New()
		if err := drv.Open(ctx, cfg.DSN); err != nil {
			return nil, err
		}
		kvs, err := kv.Open(drv)
		if err != nil {
			_ = drv.Close()
			return nil, err
		}
		return redisstore.New(kvs), nil

	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}
