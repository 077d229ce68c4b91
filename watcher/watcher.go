// Package watcher manages the registry that maps tracker users to their
// personal chat webhooks and mention tokens.
package watcher

import (
	"github.com/xraph/herald/id"
	"github.com/xraph/herald/internal/entity"
)

// Watcher is a tracker user who receives notifications for issues they have
// tagged with the watch marker.
type Watcher struct {
	entity.Entity

	// ID is the unique TypeID for this watcher.
	ID id.ID `json:"id"`

	// Login is the tracker username. Unique within a registry.
	Login string `json:"login"`

	// WebhookURL is the user's personal chat webhook.
	WebhookURL string `json:"webhook_url,omitempty"`

	// Mention is the chat token used to ping the user, e.g. "<@1234>".
	Mention string `json:"mention,omitempty"`

	// Enabled indicates whether the watcher receives notifications.
	Enabled bool `json:"enabled"`
}
