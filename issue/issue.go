// Package issue defines the read-only view of a mutated work item that the
// host hands to Herald once per mutation.
package issue

// User identifies an account on the issue tracker.
type User struct {
	// Login is the tracker username, used for registry lookups and profile URLs.
	Login string `json:"login"`

	// DisplayName is the human-readable name shown as the embed author.
	DisplayName string `json:"display_name"`
}

// Tag is a label attached to an issue by one of its users.
type Tag struct {
	Name  string `json:"name"`
	Owner User   `json:"owner"`
}

// Comment is a single issue comment.
type Comment struct {
	Text   string `json:"text"`
	Author User   `json:"author"`
}

// Comments describes comment activity for one mutation.
type Comments struct {
	// Changed is true when the comment collection was touched at all.
	Changed bool `json:"changed"`

	// Added holds comments created by this mutation, oldest first.
	Added []Comment `json:"added,omitempty"`
}

// Snapshot is the state of an issue for a single rule invocation. The host
// builds it once per committed mutation; Herald never modifies it.
//
// Field values are either scalars (string, number, bool) or structured
// objects decoded as map[string]any, e.g. {"name": "Done"} for a state field.
type Snapshot struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Project     string `json:"project"`

	// Fields holds the current value of every custom field.
	Fields map[string]any `json:"fields"`

	// Prior holds the value each changed field had before the mutation.
	Prior map[string]any `json:"prior,omitempty"`

	// Changed lists the fields modified by the mutation.
	Changed []string `json:"changed,omitempty"`

	Tags     []Tag    `json:"tags,omitempty"`
	Comments Comments `json:"comments"`

	// Assignee is the login of the user the issue is assigned to, if any.
	Assignee string `json:"assignee,omitempty"`

	// BecomesReported and BecomesResolved are one-shot transition flags, true
	// only on the invocation where the transition happens.
	BecomesReported bool `json:"becomes_reported"`
	BecomesResolved bool `json:"becomes_resolved"`

	// Reported is the trigger guard: drafts are never produced for issues
	// that are not yet visible.
	Reported bool `json:"reported"`
}

// Field returns the current value of a field. The second result is false
// when the field is missing or null.
func (s *Snapshot) Field(key string) (any, bool) {
	v, ok := s.Fields[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// PriorValue returns the value a field held before the mutation.
func (s *Snapshot) PriorValue(key string) (any, bool) {
	v, ok := s.Prior[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// IsChanged reports whether the mutation touched the given field.
func (s *Snapshot) IsChanged(key string) bool {
	for _, k := range s.Changed {
		if k == key {
			return true
		}
	}
	return false
}

// TagsNamed returns the tags carrying the given name, in issue order.
func (s *Snapshot) TagsNamed(name string) []Tag {
	var out []Tag
	for _, t := range s.Tags {
		if t.Name == name {
			out = append(out, t)
		}
	}
	return out
}
