// Package memory provides an in-memory Store implementation for tests and
// single-process deployments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xraph/herald"
	"github.com/xraph/herald/id"
	heraldstore "github.com/xraph/herald/store"
	"github.com/xraph/herald/watcher"
)

// compile-time interface check.
var _ heraldstore.Store = (*Store)(nil)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu sync.RWMutex

	watchers map[string]*watcher.Watcher // keyed by ID string
	byLogin  map[string]string           // login -> ID string

	closed bool
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		watchers: make(map[string]*watcher.Watcher),
		byLogin:  make(map[string]string),
	}
}

// Migrate is a no-op for the in-memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping reports ErrStoreClosed once the store is closed.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return herald.ErrStoreClosed
	}
	return nil
}

// Close marks the store as closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// CreateWatcher persists a new watcher.
func (s *Store) CreateWatcher(_ context.Context, w *watcher.Watcher) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byLogin[w.Login]; ok {
		return herald.ErrDuplicateWatcher
	}
	s.watchers[w.ID.String()] = copyWatcher(w)
	s.byLogin[w.Login] = w.ID.String()
	return nil
}

// GetWatcher returns a watcher by ID.
func (s *Store) GetWatcher(_ context.Context, wID id.ID) (*watcher.Watcher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.watchers[wID.String()]
	if !ok {
		return nil, herald.ErrWatcherNotFound
	}
	return copyWatcher(w), nil
}

// LookupWatcher returns the watcher registered for a login.
func (s *Store) LookupWatcher(_ context.Context, login string) (*watcher.Watcher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.byLogin[login]
	if !ok {
		return nil, herald.ErrWatcherNotFound
	}
	return copyWatcher(s.watchers[key]), nil
}

// UpdateWatcher modifies an existing watcher.
func (s *Store) UpdateWatcher(_ context.Context, w *watcher.Watcher) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.watchers[w.ID.String()]
	if !ok {
		return herald.ErrWatcherNotFound
	}
	if existing.Login != w.Login {
		if _, taken := s.byLogin[w.Login]; taken {
			return herald.ErrDuplicateWatcher
		}
		delete(s.byLogin, existing.Login)
		s.byLogin[w.Login] = w.ID.String()
	}
	w.UpdatedAt = time.Now().UTC()
	s.watchers[w.ID.String()] = copyWatcher(w)
	return nil
}

// DeleteWatcher removes a watcher.
func (s *Store) DeleteWatcher(_ context.Context, wID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.watchers[wID.String()]
	if !ok {
		return herald.ErrWatcherNotFound
	}
	delete(s.byLogin, w.Login)
	delete(s.watchers, wID.String())
	return nil
}

// ListWatchers returns watchers ordered by creation time.
func (s *Store) ListWatchers(_ context.Context, opts watcher.ListOpts) ([]*watcher.Watcher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*watcher.Watcher, 0, len(s.watchers))
	for _, w := range s.watchers {
		result = append(result, copyWatcher(w))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Login < result[j].Login
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return applyPagination(result, opts.Offset, opts.Limit), nil
}

func copyWatcher(w *watcher.Watcher) *watcher.Watcher {
	cp := *w
	return &cp
}

func applyPagination[T any](items []*T, offset, limit int) []*T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}

	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	return items
}
