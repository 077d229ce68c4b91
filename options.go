package herald

import (
	"log/slog"
	"time"

	gu "github.com/xraph/go-utils/metrics"

	"github.com/xraph/herald/catalog"
	"github.com/xraph/herald/compose"
	"github.com/xraph/herald/delivery"
	"github.com/xraph/herald/observability"
	"github.com/xraph/herald/route"
	"github.com/xraph/herald/store"
	"github.com/xraph/herald/watcher"
)

// Herald is the root notification engine.
type Herald struct {
	config     Config
	catalog    *catalog.Catalog
	store      store.Store
	watcherSvc *watcher.Service
	composer   *compose.Composer
	router     *route.Router
	transport  delivery.Transport
	dispatcher *delivery.Dispatcher
	metrics    *observability.Metrics
	tracer     *observability.Tracer
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Herald instance.
type Option func(*Herald) error

// New creates a new Herald with the given options. Without WithCatalog the
// built-in catalog is used; without WithStore no watcher is ever resolved.
func New(opts ...Option) (*Herald, error) {
	h := &Herald{
		config: DefaultConfig(),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	if err := h.config.Validate(); err != nil {
		return nil, err
	}
	if h.catalog == nil {
		h.catalog = catalog.Default()
	}
	h.wireServices()
	return h, nil
}

// WithConfig replaces the whole configuration. Options applied after it
// still override individual fields.
func WithConfig(cfg Config) Option {
	return func(h *Herald) error {
		h.config = cfg
		return nil
	}
}

// WithCatalog sets the event catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(h *Herald) error {
		h.catalog = c
		return nil
	}
}

// WithStore sets the watcher registry backend.
func WithStore(s store.Store) Option {
	return func(h *Herald) error {
		h.store = s
		return nil
	}
}

// WithLogger sets the structured logger for the Herald instance.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Herald) error {
		if logger != nil {
			h.logger = logger
		}
		return nil
	}
}

// WithTransport replaces the HTTP sender.
func WithTransport(t delivery.Transport) Option {
	return func(h *Herald) error {
		h.transport = t
		return nil
	}
}

// WithMetrics records metrics through the given go-utils factory.
func WithMetrics(factory gu.MetricFactory) Option {
	return func(h *Herald) error {
		h.metrics = observability.NewMetrics(factory)
		return nil
	}
}

// WithTracer enables OpenTelemetry spans.
func WithTracer(t *observability.Tracer) Option {
	return func(h *Herald) error {
		h.tracer = t
		return nil
	}
}

// WithClock sets the clock used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *Herald) error {
		h.now = now
		return nil
	}
}

// WithSite sets the tracker name and base URL.
func WithSite(site, trackerURL string) Option {
	return func(h *Herald) error {
		h.config.Site = site
		h.config.TrackerURL = trackerURL
		return nil
	}
}

// WithIdentity sets the username and avatar shown on every message.
func WithIdentity(username, avatarURL string) Option {
	return func(h *Herald) error {
		h.config.Username = username
		h.config.AvatarURL = avatarURL
		return nil
	}
}

// WithWebhooks sets the base destinations.
func WithWebhooks(urls ...string) Option {
	return func(h *Herald) error {
		h.config.Webhooks = urls
		return nil
	}
}

// WithWatchTag sets the tag name marking watchers.
func WithWatchTag(tag string) Option {
	return func(h *Herald) error {
		h.config.WatchTag = tag
		return nil
	}
}

// WithRoutingMode selects how watchers are reached.
func WithRoutingMode(m route.Mode) Option {
	return func(h *Herald) error {
		h.config.RoutingMode = m
		return nil
	}
}

// WithTransitionPolicy selects how creation and resolution are announced.
func WithTransitionPolicy(p TransitionPolicy) Option {
	return func(h *Herald) error {
		h.config.TransitionPolicy = p
		return nil
	}
}

// WithAssignee sets the assignee policy.
func WithAssignee(p AssigneePolicy) Option {
	return func(h *Herald) error {
		h.config.Assignee = p
		return nil
	}
}

// WithRequestTimeout sets the HTTP timeout per send.
func WithRequestTimeout(d time.Duration) Option {
	return func(h *Herald) error {
		h.config.RequestTimeout = d
		return nil
	}
}
