package herald

import (
	"fmt"
	"time"

	"github.com/xraph/herald/message"
	"github.com/xraph/herald/route"
)

// TransitionPolicy decides how issue creation and resolution are announced.
type TransitionPolicy string

const (
	// PolicyCatalog runs the catalog for every mutation; transitions are
	// covered by catalog descriptors such as "Issue Created".
	PolicyCatalog TransitionPolicy = "catalog"

	// PolicyTransitionsFirst sends one fixed "Issue <id> Created" or
	// "Issue <id> Resolved" message and skips the catalog for that mutation.
	PolicyTransitionsFirst TransitionPolicy = "transitions-first"
)

// Valid reports whether p is a known policy.
func (p TransitionPolicy) Valid() bool {
	return p == PolicyCatalog || p == PolicyTransitionsFirst
}

// AssigneePolicy gates and decorates notifications based on the issue's
// assignee.
type AssigneePolicy struct {
	// Require suppresses notifications for issues without an assignee.
	Require bool `json:"require" yaml:"require"`

	// SkipSelf suppresses notifications caused by the assignee.
	SkipSelf bool `json:"skip_self" yaml:"skip_self"`

	// Mention prefixes single-change and transition descriptions with the
	// assignee's registered mention and the bold issue summary.
	Mention bool `json:"mention" yaml:"mention"`
}

// Config holds the configuration for a Herald instance.
type Config struct {
	// Site is the tracker name shown in every footer.
	Site string

	// TrackerURL is the tracker base URL used for author profile links.
	TrackerURL string

	// Username and AvatarURL override the webhook's identity.
	Username  string
	AvatarURL string

	// DefaultColor is used for multi-change messages and drafts without a color.
	DefaultColor message.Color

	// PositiveColor and NegativeColor style resolution and creation messages.
	PositiveColor message.Color
	NegativeColor message.Color

	// Webhooks are the base destinations, in send order.
	Webhooks []string

	// WatchTag is the tag name marking a user as watching an issue.
	WatchTag string

	// RoutingMode selects how watchers are reached.
	RoutingMode route.Mode

	// TransitionPolicy selects how creation and resolution are announced.
	TransitionPolicy TransitionPolicy

	// Assignee gates and decorates notifications by assignee.
	Assignee AssigneePolicy

	// RequestTimeout is the HTTP timeout per send.
	RequestTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Username:         "Herald",
		DefaultColor:     message.DefaultColor,
		PositiveColor:    "43B581",
		NegativeColor:    "F04747",
		WatchTag:         route.DefaultWatchTag,
		RoutingMode:      route.ModeWebhook,
		TransitionPolicy: PolicyCatalog,
		RequestTimeout:   10 * time.Second,
	}
}

// Validate checks the configuration. Errors wrap ErrInvalidConfig.
func (c Config) Validate() error {
	for name, col := range map[string]message.Color{
		"default_color":  c.DefaultColor,
		"positive_color": c.PositiveColor,
		"negative_color": c.NegativeColor,
	} {
		if !col.Valid() {
			return fmt.Errorf("%w: %s %q is not 6 hex digits", ErrInvalidConfig, name, string(col))
		}
	}
	if !c.RoutingMode.Valid() {
		return fmt.Errorf("%w: unknown routing mode %q", ErrInvalidConfig, string(c.RoutingMode))
	}
	if !c.TransitionPolicy.Valid() {
		return fmt.Errorf("%w: unknown transition policy %q", ErrInvalidConfig, string(c.TransitionPolicy))
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
