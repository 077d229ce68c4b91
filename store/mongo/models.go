package mongo

import (
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/herald/id"
	"github.com/xraph/herald/internal/entity"
	"github.com/xraph/herald/watcher"
)

type watcherModel struct {
	grove.BaseModel `grove:"table:herald_watchers"`

	ID         string    `grove:"id,pk"       bson:"_id"`
	Login      string    `grove:"login"       bson:"login"`
	WebhookURL string    `grove:"webhook_url" bson:"webhook_url"`
	Mention    string    `grove:"mention"     bson:"mention"`
	Enabled    bool      `grove:"enabled"     bson:"enabled"`
	CreatedAt  time.Time `grove:"created_at"  bson:"created_at"`
	UpdatedAt  time.Time `grove:"updated_at"  bson:"updated_at"`
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
