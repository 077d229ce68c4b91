package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/xraph/herald"
	"github.com/xraph/herald/id"
	"github.com/xraph/herald/internal/entity"
	"github.com/xraph/herald/watcher"
)

// watcherModel is the JSON representation stored in Redis.
type watcherModel struct {
	ID         string    `json:"id"`
	Login      string    `json:"login"`
	WebhookURL string    `json:"webhook_url"`
	Mention    string    `json:"mention"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toWatcherModel(w *watcher.Watcher) *watcherModel {
	return &watcherModel{
		ID:         w.ID.String(),
		Login:      w.Login,
		WebhookURL: w.WebhookURL,
		Mention:    w.Mention,
		Enabled:    w.Enabled,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

func fromWatcherModel(m *watcherModel) (*watcher.Watcher, error) {
	wID, err := id.ParseWatcherID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse watcher ID %q: %w", m.ID, err)
	}
	return &watcher.Watcher{
		Entity: entity.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:         wID,
		Login:      m.Login,
		WebhookURL: m.WebhookURL,
		Mention:    m.Mention,
		Enabled:    m.Enabled,
	}, nil
}

func (s *Store) CreateWatcher(ctx context.Context, w *watcher.Watcher) error {
	m := toWatcherModel(w)

	ok, err := s.rdb.SetNX(ctx, loginKey(m.Login), m.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("herald/redis: reserve login: %w", err)
	}
	if !ok {
		return herald.ErrDuplicateWatcher
	}

	if err := s.save(ctx, m); err != nil {
		s.rdb.Del(ctx, loginKey(m.Login))
		return fmt.Errorf("herald/redis: create watcher: %w", err)
	}

	score := float64(m.CreatedAt.UnixNano()) / 1e9
	if err := s.rdb.ZAdd(ctx, zWatcherAll, goredis.Z{Score: score, Member: m.ID}).Err(); err != nil {
		return fmt.Errorf("herald/redis: index watcher: %w", err)
	}
	return nil
}

func (s *Store) GetWatcher(ctx context.Context, wID id.ID) (*watcher.Watcher, error) {
	m, err := s.load(ctx, watcherKey(wID.String()))
	if err != nil {
		return nil, err
	}
	return fromWatcherModel(m)
}

func (s *Store) LookupWatcher(ctx context.Context, login string) (*watcher.Watcher, error) {
	entryID, err := s.rdb.Get(ctx, loginKey(login)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, herald.ErrWatcherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("herald/redis: lookup watcher: %w", err)
	}

	m, err := s.load(ctx, watcherKey(entryID))
	if err != nil {
		return nil, err
	}
	return fromWatcherModel(m)
}

func (s *Store) UpdateWatcher(ctx context.Context, w *watcher.Watcher) error {
	existing, err := s.load(ctx, watcherKey(w.ID.String()))
	if err != nil {
		return err
	}

	m := toWatcherModel(w)
	m.UpdatedAt = time.Now().UTC()

	if m.Login != existing.Login {
		ok, err := s.rdb.SetNX(ctx, loginKey(m.Login), m.ID, 0).Result()
		if err != nil {
			return fmt.Errorf("herald/redis: reserve login: %w", err)
		}
		if !ok {
			return herald.ErrDuplicateWatcher
		}
		s.rdb.Del(ctx, loginKey(existing.Login))
	}

	if err := s.save(ctx, m); err != nil {
		return fmt.Errorf("herald/redis: update watcher: %w", err)
	}
	w.UpdatedAt = m.UpdatedAt
	return nil
}

func (s *Store) DeleteWatcher(ctx context.Context, wID id.ID) error {
	key := watcherKey(wID.String())
	m, err := s.load(ctx, key)
	if err != nil {
		return err
	}

	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("herald/redis: delete watcher: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.ZRem(ctx, zWatcherAll, m.ID)
	pipe.Del(ctx, loginKey(m.Login))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("herald/redis: unindex watcher: %w", err)
	}
	return nil
}

// ListWatchers pages over the creation-time index in Redis.
func (s *Store) ListWatchers(ctx context.Context, opts watcher.ListOpts) ([]*watcher.Watcher, error) {
	start := int64(max(opts.Offset, 0))
	stop := int64(-1)
	if opts.Limit > 0 {
		stop = start + int64(opts.Limit) - 1
	}

	ids, err := s.rdb.ZRange(ctx, zWatcherAll, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("herald/redis: list watchers: %w", err)
	}

	result := make([]*watcher.Watcher, 0, len(ids))
	for _, entryID := range ids {
		m, err := s.load(ctx, watcherKey(entryID))
		if errors.Is(err, herald.ErrWatcherNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		w, err := fromWatcherModel(m)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, nil
}
