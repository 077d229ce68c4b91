package herald

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/herald/catalog"
	"github.com/xraph/herald/compose"
	"github.com/xraph/herald/delivery"
	"github.com/xraph/herald/id"
	"github.com/xraph/herald/issue"
	"github.com/xraph/herald/message"
	"github.com/xraph/herald/route"
	"github.com/xraph/herald/store"
	"github.com/xraph/herald/watcher"
)

// Outcome is the terminal state of one Notify invocation.
type Outcome string

const (
	// OutcomeSent means the payload was handed to at least one destination.
	// Individual sends may still have failed; see Report.Results.
	OutcomeSent Outcome = "sent"

	// OutcomeSuppressed means nothing was sent and nothing went wrong.
	OutcomeSuppressed Outcome = "suppressed"

	// OutcomeFailed means the invocation stopped before sending.
	OutcomeFailed Outcome = "failed"
)

// Reasons reported for suppressed invocations.
const (
	ReasonNotReported    = "issue not reported"
	ReasonNoAssignee     = "issue has no assignee"
	ReasonSelfAssigned   = "actor is the assignee"
	ReasonNoChanges      = "no watched change"
	ReasonNoDestinations = "no destinations"
)

// Report describes what one Notify invocation did.
type Report struct {
	NotificationID id.ID             `json:"notification_id"`
	Outcome        Outcome           `json:"outcome"`
	Reason         string            `json:"reason,omitempty"`
	Drafts         int               `json:"drafts"`
	Destinations   int               `json:"destinations"`
	Results        []delivery.Result `json:"results,omitempty"`

	// Payload is the serialized body posted to every destination.
	Payload []byte `json:"-"`
}

// Delivered returns the number of destinations that accepted the payload.
func (r *Report) Delivered() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of destinations that did not accept the payload.
func (r *Report) Failed() int {
	return len(r.Results) - r.Delivered()
}

// Config returns the active configuration.
func (h *Herald) Config() Config { return h.config }

// Catalog returns the event catalog.
func (h *Herald) Catalog() *catalog.Catalog { return h.catalog }

// Store returns the watcher store, or nil when none is configured.
func (h *Herald) Store() store.Store { return h.store }

// Watchers returns the watcher service, or nil when no store is configured.
func (h *Herald) Watchers() *watcher.Service { return h.watcherSvc }

// wireServices builds the internal services from the options.
func (h *Herald) wireServices() {
	var registry route.Registry
	if h.store != nil {
		h.watcherSvc = watcher.NewService(h.store, h.logger)
		registry = storeRegistry{svc: h.watcherSvc}
	}

	h.composer = compose.New(compose.Options{
		Site:          h.config.Site,
		TrackerURL:    h.config.TrackerURL,
		Username:      h.config.Username,
		AvatarURL:     h.config.AvatarURL,
		DefaultColor:  h.config.DefaultColor,
		PositiveColor: h.config.PositiveColor,
		NegativeColor: h.config.NegativeColor,
		Now:           h.now,
	})

	h.router = route.New(route.Options{
		Base:     h.config.Webhooks,
		WatchTag: h.config.WatchTag,
		Mode:     h.config.RoutingMode,
		Registry: registry,
		Logger:   h.logger,
	})

	if h.transport == nil {
		h.transport = delivery.NewSender(h.config.RequestTimeout)
	}
	h.dispatcher = delivery.NewDispatcher(h.transport, delivery.DispatcherConfig{
		Metrics: h.metrics,
		Tracer:  h.tracer,
	}, h.logger)
}

// Notify runs one invocation for a committed mutation: it matches the
// catalog against snap, composes a single message, resolves destinations,
// and posts the message to each of them.
//
// Delivery failures never produce an error; they are recorded in the
// report. An error is returned only when the snapshot is nil, a catalog
// descriptor cannot read its name attribute, or the message cannot be
// serialized. In those cases nothing is sent.
func (h *Herald) Notify(ctx context.Context, snap *issue.Snapshot, actor issue.User) (*Report, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}

	report := &Report{NotificationID: id.NewNotificationID()}

	var span trace.Span
	if h.tracer != nil {
		ctx, span = h.tracer.StartNotifySpan(ctx, report.NotificationID.String(), snap.ID)
	}

	err := h.notify(ctx, snap, actor, report)
	if err != nil {
		report.Outcome = OutcomeFailed
	}

	if h.metrics != nil {
		h.metrics.RecordNotification(string(report.Outcome), report.Drafts)
	}
	if span != nil {
		h.tracer.EndNotifySpan(span, string(report.Outcome), report.Drafts, report.Destinations, err)
	}

	switch report.Outcome {
	case OutcomeSuppressed:
		h.logger.DebugContext(ctx, "notification suppressed",
			"notification_id", report.NotificationID.String(),
			"issue_id", snap.ID,
			"reason", report.Reason,
		)
	case OutcomeFailed:
		h.logger.ErrorContext(ctx, "notification failed",
			"notification_id", report.NotificationID.String(),
			"issue_id", snap.ID,
			"error", err,
		)
	default:
		h.logger.InfoContext(ctx, "notification sent",
			"notification_id", report.NotificationID.String(),
			"issue_id", snap.ID,
			"drafts", report.Drafts,
			"destinations", report.Destinations,
			"delivered", report.Delivered(),
		)
	}

	return report, err
}

func (h *Herald) notify(ctx context.Context, snap *issue.Snapshot, actor issue.User, report *Report) error {
	suppress := func(reason string) error {
		report.Outcome = OutcomeSuppressed
		report.Reason = reason
		return nil
	}

	if !snap.Reported {
		return suppress(ReasonNotReported)
	}

	policy := h.config.Assignee
	if policy.Require && snap.Assignee == "" {
		return suppress(ReasonNoAssignee)
	}
	if policy.SkipSelf && snap.Assignee != "" && snap.Assignee == actor.Login {
		return suppress(ReasonSelfAssigned)
	}

	var mention string
	if policy.Mention {
		mention = h.assigneeMention(ctx, snap)
	}

	var embed *message.Embed
	transition := compose.TransitionOf(snap)
	if h.config.TransitionPolicy == PolicyTransitionsFirst && transition != 0 {
		report.Drafts = 1
		embed = h.composer.Transition(snap, actor, transition, mention)
	} else {
		drafts, err := h.catalog.Match(snap)
		if err != nil {
			return fmt.Errorf("herald: match issue %s: %w", snap.ID, err)
		}
		report.Drafts = len(drafts)
		embed = h.composer.Compose(snap, actor, drafts, mention)
	}
	if embed == nil {
		return suppress(ReasonNoChanges)
	}

	plan := h.router.Resolve(ctx, snap)
	if f, ok := plan.WatchersField(); ok {
		embed.Fields = append(embed.Fields, f)
	}
	report.Destinations = len(plan.Destinations)
	if report.Destinations == 0 {
		return suppress(ReasonNoDestinations)
	}

	body, err := h.composer.Payload(embed).Encode()
	if err != nil {
		return fmt.Errorf("herald: encode payload: %w", err)
	}
	report.Payload = body

	report.Results = h.dispatcher.Dispatch(ctx, report.NotificationID.String(), plan.Destinations, body)
	report.Outcome = OutcomeSent
	return nil
}

// assigneeMention returns the registered mention of the issue's assignee,
// or "" when there is none.
func (h *Herald) assigneeMention(ctx context.Context, snap *issue.Snapshot) string {
	if snap.Assignee == "" || h.watcherSvc == nil {
		return ""
	}
	w, err := storeRegistry{svc: h.watcherSvc}.Lookup(ctx, snap.Assignee)
	if err != nil {
		h.logger.WarnContext(ctx, "assignee lookup failed",
			"issue_id", snap.ID,
			"login", snap.Assignee,
			"error", err,
		)
		return ""
	}
	if w == nil || !w.Enabled {
		return ""
	}
	return w.Mention
}

// storeRegistry adapts the watcher service to route.Registry.
type storeRegistry struct {
	svc *watcher.Service
}

func (r storeRegistry) Lookup(ctx context.Context, login string) (*watcher.Watcher, error) {
	w, err := r.svc.Lookup(ctx, login)
	if errors.Is(err, ErrWatcherNotFound) {
		return nil, nil
	}
	return w, err
}
