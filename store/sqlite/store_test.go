package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"

	"github.com/xraph/herald"
	"github.com/xraph/herald/id"
	"github.com/xraph/herald/internal/entity"
	"github.com/xraph/herald/store/sqlite"
	"github.com/xraph/herald/watcher"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	ctx := context.Background()

	drv := sqlitedriver.New()
	if err := drv.Open(ctx, filepath.Join(t.TempDir(), "herald.db")); err != nil {
		t.Fatal(err)
	}
	db, err := grove.Open(drv)
	if err != nil {
		t.Fatal(err)
	}
	s := sqlite.New(db)
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return s
}

func newWatcher(login string, created time.Time) *watcher.Watcher {
	return &watcher.Watcher{
		Entity:     entity.Entity{CreatedAt: created, UpdatedAt: created},
		ID:         id.NewWatcherID(),
		Login:      login,
		WebhookURL: "https://chat.example.com/hooks/" + login,
		Enabled:    true,
	}
}

func TestMigrateIsRepeatable(t *testing.T) {
	s := openStore(t)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestWatcherRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	jane := newWatcher("jane", base)
	omar := newWatcher("omar", base.Add(time.Minute))
	omar.WebhookURL = ""
	omar.Mention = "<@2>"

	for _, w := range []*watcher.Watcher{omar, jane} {
		if err := s.CreateWatcher(ctx, w); err != nil {
			t.Fatalf("create %s: %v", w.Login, err)
		}
	}

	got, err := s.LookupWatcher(ctx, "jane")
	if err != nil {
		t.Fatalf("LookupWatcher: %v", err)
	}
	if got.ID.String() != jane.ID.String() {
		t.Fatalf("ID = %s, want %s", got.ID, jane.ID)
	}
	if got.WebhookURL != jane.WebhookURL || !got.Enabled {
		t.Fatalf("unexpected watcher %+v", got)
	}
	if !got.CreatedAt.Equal(base) {
		t.Fatalf("CreatedAt = %v, want %v", got.CreatedAt, base)
	}

	byID, err := s.GetWatcher(ctx, omar.ID)
	if err != nil {
		t.Fatalf("GetWatcher: %v", err)
	}
	if byID.Mention != "<@2>" || byID.WebhookURL != "" {
		t.Fatalf("unexpected watcher %+v", byID)
	}

	list, err := s.ListWatchers(ctx, watcher.ListOpts{})
	if err != nil {
		t.Fatalf("ListWatchers: %v", err)
	}
	if len(list) != 2 || list[0].Login != "jane" || list[1].Login != "omar" {
		t.Fatalf("list order = %v", logins(list))
	}

	page, err := s.ListWatchers(ctx, watcher.ListOpts{Offset: 1, Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 || page[0].Login != "omar" {
		t.Fatalf("page = %v", logins(page))
	}

	jane.Enabled = false
	jane.Mention = "<@1>"
	if err := s.UpdateWatcher(ctx, jane); err != nil {
		t.Fatalf("UpdateWatcher: %v", err)
	}
	got, err = s.LookupWatcher(ctx, "jane")
	if err != nil {
		t.Fatal(err)
	}
	if got.Enabled || got.Mention != "<@1>" {
		t.Fatalf("update not persisted: %+v", got)
	}

	if err := s.DeleteWatcher(ctx, jane.ID); err != nil {
		t.Fatalf("DeleteWatcher: %v", err)
	}
	if _, err := s.LookupWatcher(ctx, "jane"); !errors.Is(err, herald.ErrWatcherNotFound) {
		t.Fatalf("expected ErrWatcherNotFound after delete, got %v", err)
	}
}

func TestWatcherErrors(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	jane := newWatcher("jane", time.Now().UTC())
	if err := s.CreateWatcher(ctx, jane); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateWatcher(ctx, newWatcher("jane", time.Now().UTC())); !errors.Is(err, herald.ErrDuplicateWatcher) {
		t.Fatalf("expected ErrDuplicateWatcher, got %v", err)
	}

	ghost := newWatcher("ghost", time.Now().UTC())
	if _, err := s.GetWatcher(ctx, ghost.ID); !errors.Is(err, herald.ErrWatcherNotFound) {
		t.Fatalf("get: expected ErrWatcherNotFound, got %v", err)
	}
	if err := s.UpdateWatcher(ctx, ghost); !errors.Is(err, herald.ErrWatcherNotFound) {
		t.Fatalf("update: expected ErrWatcherNotFound, got %v", err)
	}
	if err := s.DeleteWatcher(ctx, ghost.ID); !errors.Is(err, herald.ErrWatcherNotFound) {
		t.Fatalf("delete: expected ErrWatcherNotFound, got %v", err)
	}
}

func logins(ws []*watcher.Watcher) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Login
	}
	return out
}
