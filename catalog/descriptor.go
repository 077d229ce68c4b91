package catalog

import (
	"github.com/xraph/herald/issue"
	"github.com/xraph/herald/message"
)

// Descriptor describes one kind of watchable change: how to detect it on a
// snapshot and how to describe it to humans.
//
// A descriptor is detected either through FieldKey (the named field changed
// and has a value) or through Match. At least one of the two must be set.
type Descriptor struct {
	// Title names the change, e.g. "Stage Changed".
	Title string `json:"title"`

	// NewDescription is the template used when there is no prior value.
	NewDescription string `json:"new_description"`

	// ChangeDescription is the template used when a prior value exists.
	ChangeDescription string `json:"change_description,omitempty"`

	// FieldKey is the issue field being watched.
	FieldKey string `json:"field_key,omitempty"`

	// NameKey selects the display attribute of a structured field value,
	// e.g. "name" for a state or "visibleName" for a user.
	NameKey string `json:"name_key,omitempty"`

	// Color overrides the sidebar color when this is the only change.
	Color message.Color `json:"color,omitempty"`

	// Thumbnail is an image URL attached when this is the only change.
	Thumbnail string `json:"thumbnail,omitempty"`

	// Match detects the change without looking at FieldKey.
	Match func(*issue.Snapshot) bool `json:"-"`

	// Value replaces the raw field value used as $newValue.
	Value func(*issue.Snapshot) any `json:"-"`
}

// Validate checks that the descriptor can ever fire.
func (d Descriptor) Validate() error {
	if d.Title == "" {
		return &DescriptorError{Title: d.Title, Reason: "title is required"}
	}
	if d.FieldKey == "" && d.Match == nil {
		return &DescriptorError{Title: d.Title, Reason: "needs a field key or a match function"}
	}
	if !d.Color.Valid() {
		return &DescriptorError{Title: d.Title, Reason: "color must be 6 hex digits"}
	}
	return nil
}

// DescriptorError reports a descriptor rejected while building a catalog.
type DescriptorError struct {
	Index  int
	Title  string
	Reason string
}

func (e *DescriptorError) Error() string {
	return "descriptor " + quoteTitle(e.Title) + ": " + e.Reason
}

// Unwrap lets errors.Is match ErrInvalidDescriptor.
func (e *DescriptorError) Unwrap() error { return ErrInvalidDescriptor }

func quoteTitle(title string) string {
	if title == "" {
		return "(untitled)"
	}
	return `"` + title + `"`
}
