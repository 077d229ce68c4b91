package watcher

import (
	"context"

	"github.com/xraph/herald/id"
)

// Store defines the persistence contract for the watcher registry.
type Store interface {
	// CreateWatcher persists a new watcher. Logins are unique.
	CreateWatcher(ctx context.Context, w *Watcher) error

	// GetWatcher returns a watcher by ID.
	GetWatcher(ctx context.Context, wID id.ID) (*Watcher, error)

	// LookupWatcher returns the watcher registered for a tracker login.
	// This is the hot path, called once per watch tag on every notification.
	LookupWatcher(ctx context.Context, login string) (*Watcher, error)

	// UpdateWatcher modifies an existing watcher.
	UpdateWatcher(ctx context.Context, w *Watcher) error

	// DeleteWatcher removes a watcher.
	DeleteWatcher(ctx context.Context, wID id.ID) error

	// ListWatchers returns watchers ordered by creation time.
	ListWatchers(ctx context.Context, opts ListOpts) ([]*Watcher, error)
}
