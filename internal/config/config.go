// Package config loads the heraldd daemon configuration.
//
// Values are resolved in this order, later sources winning:
//
//	Defaults -> YAML/JSON file -> .env file -> OS environment (HERALD_*)
//
// The watcher section of the file is checked against an embedded JSON
// Schema before decoding, and the merged result is validated with
// go-playground/validator. Any failure aborts startup.
package config

import (
	"fmt"
	"time"

	"github.com/xraph/herald"
	"github.com/xraph/herald/message"
	"github.com/xraph/herald/route"
)

// Config is the top-level daemon configuration.
type Config struct {
	LogLevel string `json:"log_level" split_words:"true" validate:"oneof=debug info warn error"`

	// Catalog is an optional path to a declarative event catalog. The
	// built-in catalog is used when empty.
	Catalog string `json:"catalog" split_words:"true"`

	Server  ServerConfig  `json:"server" split_words:"true"`
	Tracker TrackerConfig `json:"tracker" split_words:"true"`
	Notify  NotifyConfig  `json:"notify" split_words:"true"`
	Store   StoreConfig   `json:"store" split_words:"true"`

	// Watchers seeds the registry at startup. File only.
	Watchers []WatcherConfig `json:"watchers" ignored:"true" validate:"dive"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string `json:"addr" split_words:"true" validate:"required"`
	ShutdownTimeout string `json:"shutdown_timeout" split_words:"true" validate:"duration"`

	// IntakeSecret, when set, requires POST /changes to be HMAC signed.
	IntakeSecret string `json:"intake_secret" split_words:"true"`
}

// TrackerConfig describes the issue tracker the notifications link to.
type TrackerConfig struct {
	Site string `json:"site" split_words:"true" validate:"required"`
	URL  string `json:"url" split_words:"true" validate:"required,url"`
}

// NotifyConfig controls message identity, styling and routing.
type NotifyConfig struct {
	Username  string `json:"username" split_words:"true"`
	AvatarURL string `json:"avatar_url" split_words:"true" validate:"omitempty,url"`

	DefaultColor  string `json:"default_color" split_words:"true" validate:"color"`
	PositiveColor string `json:"positive_color" split_words:"true" validate:"color"`
	NegativeColor string `json:"negative_color" split_words:"true" validate:"color"`

	Webhooks         []string `json:"webhooks" split_words:"true" validate:"dive,url"`
	WatchTag         string   `json:"watch_tag" split_words:"true" validate:"required"`
	RoutingMode      string   `json:"routing_mode" split_words:"true" validate:"oneof=webhook mention"`
	TransitionPolicy string   `json:"transition_policy" split_words:"true" validate:"oneof=catalog transitions-first"`
	RequestTimeout   string   `json:"request_timeout" split_words:"true" validate:"duration"`

	Assignee AssigneeConfig `json:"assignee" split_words:"true"`
}

// AssigneeConfig mirrors herald.AssigneePolicy.
type AssigneeConfig struct {
	Require  bool `json:"require" split_words:"true"`
	SkipSelf bool `json:"skip_self" split_words:"true"`
	Mention  bool `json:"mention" split_words:"true"`
}

// Watcher registry backends.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMongo    = "mongo"
)

// StoreConfig selects the watcher registry backend. DSN is passed to the
// backend driver unchanged: a file path for sqlite, a URL for the others.
type StoreConfig struct {
	Driver string `json:"driver" split_words:"true" validate:"oneof=memory sqlite postgres redis mongo"`
	DSN    string `json:"dsn" split_words:"true" validate:"required_unless=Driver memory"`
}

// WatcherConfig registers one watcher.
type WatcherConfig struct {
	Login      string `json:"login" validate:"required"`
	WebhookURL string `json:"webhook_url" validate:"omitempty,url"`
	Mention    string `json:"mention" validate:"required_without=WebhookURL"`
}

// Default returns the configuration used for every value the file and
// environment leave unset.
func Default() *Config {
	def := herald.DefaultConfig()
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "10s",
		},
		Store: StoreConfig{Driver: StoreMemory},
		Notify: NotifyConfig{
			Username:         def.Username,
			DefaultColor:     string(def.DefaultColor),
			PositiveColor:    string(def.PositiveColor),
			NegativeColor:    string(def.NegativeColor),
			WatchTag:         def.WatchTag,
			RoutingMode:      string(def.RoutingMode),
			TransitionPolicy: string(def.TransitionPolicy),
			RequestTimeout:   def.RequestTimeout.String(),
		},
	}
}

// Herald converts the daemon configuration into a herald.Config.
func (c *Config) Herald() (herald.Config, error) {
	timeout, err := time.ParseDuration(c.Notify.RequestTimeout)
	if err != nil {
		return herald.Config{}, fmt.Errorf("notify.request_timeout: %w", err)
	}

	return herald.Config{
		Site:             c.Tracker.Site,
		TrackerURL:       c.Tracker.URL,
		Username:         c.Notify.Username,
		AvatarURL:        c.Notify.AvatarURL,
		DefaultColor:     message.Color(c.Notify.DefaultColor),
		PositiveColor:    message.Color(c.Notify.PositiveColor),
		NegativeColor:    message.Color(c.Notify.NegativeColor),
		Webhooks:         c.Notify.Webhooks,
		WatchTag:         c.Notify.WatchTag,
		RoutingMode:      route.Mode(c.Notify.RoutingMode),
		TransitionPolicy: herald.TransitionPolicy(c.Notify.TransitionPolicy),
		Assignee: herald.AssigneePolicy{
			Require:  c.Notify.Assignee.Require,
			SkipSelf: c.Notify.Assignee.SkipSelf,
			Mention:  c.Notify.Assignee.Mention,
		},
		RequestTimeout: timeout,
	}, nil
}

// ShutdownTimeout returns the parsed server shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
