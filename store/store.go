// Package store defines the composite Store interface for Herald persistence.
//
// Each subsystem defines its own store interface and the aggregate Store
// composes them. Only the watcher registry is persisted.
package store

import (
	"context"

	"github.com/xraph/herald/watcher"
)

// Store is the aggregate persistence interface.
type Store interface {
	watcher.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks database connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
