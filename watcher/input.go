package watcher

// Input is the creation/update payload for watchers.
type Input struct {
	// Login is the tracker username.
	Login string `json:"login" validate:"required,max=255"`

	// WebhookURL is the user's personal chat webhook.
	WebhookURL string `json:"webhook_url" validate:"omitempty,url"`

	// Mention is the chat token used to ping the user.
	Mention string `json:"mention" validate:"required_without=WebhookURL,max=64"`
}

// ListOpts configures pagination for watcher listing.
type ListOpts struct {
	Offset int
	Limit  int
}
