// Package route resolves where a notification goes: the configured base
// webhooks plus the watchers who tagged the issue.
package route

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xraph/herald/issue"
	"github.com/xraph/herald/message"
	"github.com/xraph/herald/watcher"
)

// DefaultWatchTag is the tag name that marks a user as watching an issue.
const DefaultWatchTag = "Star"

// WatchersField is the embed field listing mentioned watchers.
const WatchersField = "Watchers"

// Mode selects how watchers are reached. Exactly one mode is active.
type Mode string

const (
	// ModeWebhook posts a copy of the message to each watcher's personal webhook.
	ModeWebhook Mode = "webhook"

	// ModeMention mentions each watcher inside the message sent to the base webhooks.
	ModeMention Mode = "mention"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeWebhook || m == ModeMention
}

// Registry resolves tracker logins to registered watchers. Lookup returns
// a nil watcher and a nil error when the login is not registered.
type Registry interface {
	Lookup(ctx context.Context, login string) (*watcher.Watcher, error)
}

// Options configures a Router.
type Options struct {
	// Base are the destinations every notification is sent to, in order.
	Base []string

	// WatchTag is the tag name marking watchers. Defaults to DefaultWatchTag.
	WatchTag string

	// Mode defaults to ModeWebhook.
	Mode Mode

	// Registry may be nil, in which case no watcher is ever resolved.
	Registry Registry

	Logger *slog.Logger
}

// Router computes destination sets. It keeps no per-invocation state.
type Router struct {
	base     []string
	tag      string
	mode     Mode
	registry Registry
	logger   *slog.Logger
}

// New returns a Router.
func New(opts Options) *Router {
	if opts.WatchTag == "" {
		opts.WatchTag = DefaultWatchTag
	}
	if opts.Mode == "" {
		opts.Mode = ModeWebhook
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	base := make([]string, len(opts.Base))
	copy(base, opts.Base)

	return &Router{
		base:     base,
		tag:      opts.WatchTag,
		mode:     opts.Mode,
		registry: opts.Registry,
		logger:   opts.Logger,
	}
}

// Plan is the routing decision for one notification.
type Plan struct {
	// Destinations are unique webhook URLs in first-seen order.
	Destinations []string

	// Mentions are the mention tokens of resolved watchers, used in
	// ModeMention only.
	Mentions []string
}

// WatchersField returns the "Watchers" embed field, or false when no
// watcher was mentioned.
func (p *Plan) WatchersField() (message.Field, bool) {
	if len(p.Mentions) == 0 {
		return message.Field{}, false
	}
	return message.Field{Name: WatchersField, Value: strings.Join(p.Mentions, "\n")}, true
}

// Resolve builds the destination plan for snap. Tag owners that are not
// registered, disabled, or lack the address the mode needs are skipped.
// A failing registry lookup skips that owner and is logged.
func (r *Router) Resolve(ctx context.Context, snap *issue.Snapshot) *Plan {
	plan := &Plan{}
	seenDest := make(map[string]struct{})
	seenMention := make(map[string]struct{})

	addDest := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seenDest[u]; ok {
			return
		}
		seenDest[u] = struct{}{}
		plan.Destinations = append(plan.Destinations, u)
	}

	for _, u := range r.base {
		addDest(u)
	}

	if r.registry == nil {
		return plan
	}

	for _, tag := range snap.TagsNamed(r.tag) {
		login := tag.Owner.Login
		if login == "" {
			continue
		}

		w, err := r.registry.Lookup(ctx, login)
		if err != nil {
			r.logger.WarnContext(ctx, "watcher lookup failed",
				"issue_id", snap.ID,
				"login", login,
				"error", err,
			)
			continue
		}
		if w == nil || !w.Enabled {
			continue
		}

		switch r.mode {
		case ModeMention:
			if w.Mention == "" {
				continue
			}
			if _, ok := seenMention[w.Mention]; ok {
				continue
			}
			seenMention[w.Mention] = struct{}{}
			plan.Mentions = append(plan.Mentions, w.Mention)
		default:
			addDest(w.WebhookURL)
		}
	}

	return plan
}
