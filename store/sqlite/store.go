// Package sqlite implements the watcher registry on SQLite through Grove ORM.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	_ "github.com/xraph/grove/drivers/sqlitedriver/sqlitemigrate"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/herald"
	"github.com/xraph/herald/id"
	heraldstore "github.com/xraph/herald/store"
	"github.com/xraph/herald/watcher"
)

// compile-time interface check
var _ heraldstore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("herald/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("%w: sqlite: %w", herald.ErrMigrationFailed, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateWatcher(ctx context.Context, w *watcher.Watcher) error {
	res, err := s.sdb.NewInsert(toWatcherModel(w)).
		OnConflict("(login) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return herald.ErrDuplicateWatcher
	}
	return nil
}

func (s *Store) GetWatcher(ctx context.Context, wID id.ID) (*watcher.Watcher, error) {
	return s.selectOne(ctx, "id = ?", wID.String())
}

func (s *Store) LookupWatcher(ctx context.Context, login string) (*watcher.Watcher, error) {
	return s.selectOne(ctx, "login = ?", login)
}

func (s *Store) selectOne(ctx context.Context, where string, arg any) (*watcher.Watcher, error) {
	m := new(watcherModel)
	err := s.sdb.NewSelect(m).
		Where(where, arg).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, herald.ErrWatcherNotFound
		}
		return nil, err
	}
	return fromWatcherModel(m)
}

func (s *Store) UpdateWatcher(ctx context.Context, w *watcher.Watcher) error {
	m := toWatcherModel(w)
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return herald.ErrWatcherNotFound
	}
	w.UpdatedAt = m.UpdatedAt
	return nil
}

func (s *Store) DeleteWatcher(ctx context.Context, wID id.ID) error {
	res, err := s.sdb.NewDelete((*watcherModel)(nil)).
		Where("id = ?", wID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return herald.ErrWatcherNotFound
	}
	return nil
}

func (s *Store) ListWatchers(ctx context.Context, opts watcher.ListOpts) ([]*watcher.Watcher, error) {
	var models []watcherModel
	q := s.sdb.NewSelect(&models)
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*watcher.Watcher, len(models))
	for i := range models {
		w, err := fromWatcherModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = w
	}
	return result, nil
}

func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
