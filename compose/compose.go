// Package compose turns matched drafts into the embed and payload posted to
// chat webhooks.
package compose

import (
	"strconv"
	"strings"
	"time"

	"github.com/xraph/herald/catalog"
	"github.com/xraph/herald/issue"
	"github.com/xraph/herald/message"
)

// Transition is a lifecycle change that gets a fixed message of its own.
type Transition int

const (
	// Created marks an issue that became reported on this mutation.
	Created Transition = iota + 1
	// Resolved marks an issue that became resolved on this mutation.
	Resolved
)

// TransitionOf returns the transition carried by snap, or 0.
// Creation wins when both flags are set.
func TransitionOf(snap *issue.Snapshot) Transition {
	switch {
	case snap.BecomesReported:
		return Created
	case snap.BecomesResolved:
		return Resolved
	default:
		return 0
	}
}

// Options configures a Composer.
type Options struct {
	// Site is the tracker name shown in every footer.
	Site string

	// TrackerURL is the tracker base URL; author links point at
	// TrackerURL + "/users/" + login.
	TrackerURL string

	Username  string
	AvatarURL string

	DefaultColor  message.Color
	PositiveColor message.Color
	NegativeColor message.Color

	// Now is the composition clock. Defaults to time.Now.
	Now func() time.Time
}

// Composer builds messages. It holds no per-invocation state and is safe for
// concurrent use.
type Composer struct {
	opts Options
}

// New returns a Composer.
func New(opts Options) *Composer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultColor == "" {
		opts.DefaultColor = message.DefaultColor
	}
	return &Composer{opts: opts}
}

// Compose builds the embed for a set of drafts. It returns nil when there
// are no drafts.
//
// A single draft keeps its own color and thumbnail. Several drafts are
// listed as one non-inline field each under a summary title, in the default
// color. A non-empty mention prefixes a single draft's description with the
// mention and the bold issue summary.
func (c *Composer) Compose(snap *issue.Snapshot, actor issue.User, drafts []catalog.Draft, mention string) *message.Embed {
	if len(drafts) == 0 {
		return nil
	}

	e := c.frame(snap, actor)

	if len(drafts) == 1 {
		d := drafts[0]
		e.Body.Title = d.Title + " [" + snap.ID + "]\n" + snap.Summary
		e.Body.Description = c.withMention(mention, snap.Summary, d.Description)
		e.Body.Color = d.Color.Or(c.opts.DefaultColor)
		e.ThumbnailURL = d.Thumbnail
		return e
	}

	e.Body.Title = strconv.Itoa(len(drafts)) + " New Changes To " + snap.ID
	e.Body.Color = c.opts.DefaultColor
	for _, d := range drafts {
		e.AddField(d.Title, d.Description, false)
	}
	return e
}

// Transition builds the fixed message for an issue creation or resolution.
// It returns nil for any other value of t.
func (c *Composer) Transition(snap *issue.Snapshot, actor issue.User, t Transition, mention string) *message.Embed {
	e := c.frame(snap, actor)

	switch t {
	case Created:
		e.Body.Title = "Issue " + snap.ID + " Created"
		e.Body.Color = c.opts.NegativeColor.Or(c.opts.DefaultColor)
	case Resolved:
		e.Body.Title = "Issue " + snap.ID + " Resolved"
		e.Body.Color = c.opts.PositiveColor.Or(c.opts.DefaultColor)
	default:
		return nil
	}

	desc := "**" + snap.Summary + "** \n" + snap.Description
	if mention != "" {
		desc = mention + " \n" + desc
	}
	e.Body.Description = desc
	return e
}

// Payload wraps embeds in a payload carrying the configured identity.
func (c *Composer) Payload(embeds ...*message.Embed) *message.Payload {
	p := message.NewPayload(c.opts.Username, c.opts.AvatarURL)
	for _, e := range embeds {
		if e != nil {
			p.AddEmbed(*e)
		}
	}
	return p
}

// frame returns an embed with the parts shared by every message.
func (c *Composer) frame(snap *issue.Snapshot, actor issue.User) *message.Embed {
	body := &message.Body{URL: snap.URL}
	body.Stamp(c.opts.Now().UTC())

	return &message.Embed{
		Author: message.NewAuthor(actor.DisplayName, c.profileURL(actor.Login)),
		Body:   body,
		Footer: message.NewFooter(c.opts.Site + " " + snap.Project),
	}
}

func (c *Composer) profileURL(login string) string {
	return strings.TrimSuffix(c.opts.TrackerURL, "/") + "/users/" + login
}

func (c *Composer) withMention(mention, summary, text string) string {
	if mention == "" {
		return text
	}
	return mention + " \n**" + summary + "** \n" + text
}
