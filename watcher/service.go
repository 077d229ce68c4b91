package watcher

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/xraph/herald/id"
	"github.com/xraph/herald/internal/entity"
)

// Service provides watcher registry operations.
type Service struct {
	store    Store
	logger   *slog.Logger
	validate *validator.Validate
}

// NewService creates a new watcher service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		logger:   logger,
		validate: validator.New(),
	}
}

// Create registers a new watcher.
func (svc *Service) Create(ctx context.Context, in Input) (*Watcher, error) {
	in.Login = strings.TrimSpace(in.Login)
	if err := svc.check(in); err != nil {
		return nil, err
	}

	w := &Watcher{
		Entity:     entity.New(),
		ID:         id.NewWatcherID(),
		Login:      in.Login,
		WebhookURL: in.WebhookURL,
		Mention:    in.Mention,
		Enabled:    true,
	}

	if err := svc.store.CreateWatcher(ctx, w); err != nil {
		return nil, err
	}

	svc.logger.InfoContext(ctx, "watcher registered", "watcher_id", w.ID.String(), "login", w.Login)
	return w, nil
}

// Get returns a watcher by ID.
func (svc *Service) Get(ctx context.Context, wID id.ID) (*Watcher, error) {
	return svc.store.GetWatcher(ctx, wID)
}

// Lookup returns the watcher registered for a tracker login.
func (svc *Service) Lookup(ctx context.Context, login string) (*Watcher, error) {
	return svc.store.LookupWatcher(ctx, login)
}

// Update modifies an existing watcher. Empty input fields keep their
// current value; the login cannot change.
func (svc *Service) Update(ctx context.Context, wID id.ID, in Input) (*Watcher, error) {
	w, err := svc.store.GetWatcher(ctx, wID)
	if err != nil {
		return nil, err
	}

	if in.WebhookURL != "" {
		w.WebhookURL = in.WebhookURL
	}
	if in.Mention != "" {
		w.Mention = in.Mention
	}

	if err := svc.check(Input{Login: w.Login, WebhookURL: w.WebhookURL, Mention: w.Mention}); err != nil {
		return nil, err
	}

	w.Touch()
	if err := svc.store.UpdateWatcher(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// SetEnabled enables or disables a watcher without deleting it.
func (svc *Service) SetEnabled(ctx context.Context, wID id.ID, enabled bool) error {
	w, err := svc.store.GetWatcher(ctx, wID)
	if err != nil {
		return err
	}
	w.Enabled = enabled
	w.Touch()
	return svc.store.UpdateWatcher(ctx, w)
}

// Delete removes a watcher.
func (svc *Service) Delete(ctx context.Context, wID id.ID) error {
	return svc.store.DeleteWatcher(ctx, wID)
}

// List returns registered watchers.
func (svc *Service) List(ctx context.Context, opts ListOpts) ([]*Watcher, error) {
	return svc.store.ListWatchers(ctx, opts)
}

func (svc *Service) check(in Input) error {
	err := svc.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	return &ValidationError{Field: jsonName(fe.Field()), Message: message(fe)}
}

func jsonName(field string) string {
	switch field {
	case "WebhookURL":
		return "webhook_url"
	default:
		return strings.ToLower(field)
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "required_without":
		return "webhook_url or mention required"
	case "url":
		return "invalid URL"
	case "max":
		return "too long"
	default:
		return "failed " + fe.Tag()
	}
}

// ValidationError indicates invalid input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "watcher validation: " + e.Field + ": " + e.Message
}
