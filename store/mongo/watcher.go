package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/herald"
	"github.com/xraph/herald/id"
	"github.com/xraph/herald/watcher"
)

// CreateWatcher persists a new watcher.
func (s *Store) CreateWatcher(ctx context.Context, w *watcher.Watcher) error {
	_, err := s.mdb.NewInsert(toWatcherModel(w)).Exec(ctx)
	if err != nil {
		if mongod.IsDuplicateKeyError(err) {
			return herald.ErrDuplicateWatcher
		}

		return fmt.Errorf("herald/mongo: create watcher: %w", err)
	}

	return nil
}

// GetWatcher returns a watcher by ID.
func (s *Store) GetWatcher(ctx context.Context, wID id.ID) (*watcher.Watcher, error) {
	return s.findOne(ctx, bson.M{"_id": wID.String()})
}

// LookupWatcher returns the watcher registered for a login.
func (s *Store) LookupWatcher(ctx context.Context, login string) (*watcher.Watcher, error) {
	return s.findOne(ctx, bson.M{"login": login})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*watcher.Watcher, error) {
	var m watcherModel

	err := s.mdb.NewFind(&m).
		Filter(filter).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, herald.ErrWatcherNotFound
		}

		return nil, fmt.Errorf("herald/mongo: get watcher: %w", err)
	}

	return fromWatcherModel(&m)
}

// UpdateWatcher modifies an existing watcher.
func (s *Store) UpdateWatcher(ctx context.Context, w *watcher.Watcher) error {
	m := toWatcherModel(w)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		if mongod.IsDuplicateKeyError(err) {
			return herald.ErrDuplicateWatcher
		}

		return fmt.Errorf("herald/mongo: update watcher: %w", err)
	}

	if res.MatchedCount() == 0 {
		return herald.ErrWatcherNotFound
	}

	w.UpdatedAt = m.UpdatedAt
	return nil
}

// DeleteWatcher removes a watcher.
func (s *Store) DeleteWatcher(ctx context.Context, wID id.ID) error {
	res, err := s.mdb.NewDelete((*watcherModel)(nil)).
		Filter(bson.M{"_id": wID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("herald/mongo: delete watcher: %w", err)
	}

	if res.DeletedCount() == 0 {
		return herald.ErrWatcherNotFound
	}

	return nil
}

// ListWatchers returns watchers ordered by creation time.
func (s *Store) ListWatchers(ctx context.Context, opts watcher.ListOpts) ([]*watcher.Watcher, error) {
	var models []watcherModel

	q := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "created_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}

	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("herald/mongo: list watchers: %w", err)
	}

	result := make([]*watcher.Watcher, 0, len(models))

	for i := range models {
		w, err := fromWatcherModel(&models[i])
		if err != nil {
			return nil, err
		}

		result = append(result, w)
	}

	return result, nil
}
