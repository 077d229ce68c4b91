package catalog

import (
	"fmt"

	"github.com/xraph/herald/issue"
	"github.com/xraph/herald/message"
)

// Draft is one matched change, ready to be composed into a message.
type Draft struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Color       message.Color `json:"color,omitempty"`
	Thumbnail   string        `json:"thumbnail,omitempty"`
}

// Match scans the catalog against a snapshot and returns one draft per
// matching descriptor, in catalog order. An empty result means nothing
// worth notifying happened.
//
// A missing NameKey attribute fails the whole scan; no partial result is
// returned.
func (c *Catalog) Match(snap *issue.Snapshot) ([]Draft, error) {
	var drafts []Draft
	for _, d := range c.descriptors {
		if !d.eligible(snap) {
			continue
		}

		draft, err := d.draft(snap)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// eligible reports whether the descriptor fires for the snapshot.
func (d Descriptor) eligible(snap *issue.Snapshot) bool {
	if d.FieldKey != "" && snap.IsChanged(d.FieldKey) {
		if _, ok := snap.Field(d.FieldKey); ok {
			return true
		}
	}
	return d.Match != nil && d.Match(snap)
}

func (d Descriptor) draft(snap *issue.Snapshot) (Draft, error) {
	var oldValue, newValue any
	if d.FieldKey != "" {
		oldValue, _ = snap.PriorValue(d.FieldKey)
		newValue, _ = snap.Field(d.FieldKey)
	}

	if d.Value != nil {
		newValue = d.Value(snap)
	}

	if d.NameKey != "" {
		var err error
		if oldValue != nil {
			if oldValue, err = issue.Attr(oldValue, d.NameKey); err != nil {
				return Draft{}, fmt.Errorf("%w: %s old value: %w", ErrAttributeMissing, d.Title, err)
			}
		}
		if newValue, err = issue.Attr(newValue, d.NameKey); err != nil {
			return Draft{}, fmt.Errorf("%w: %s new value: %w", ErrAttributeMissing, d.Title, err)
		}
	}

	tpl := d.NewDescription
	if issue.Truthy(oldValue) {
		tpl = d.ChangeDescription
	}

	return Draft{
		Title:       d.Title,
		Description: Render(tpl, oldValue, newValue),
		Color:       d.Color,
		Thumbnail:   d.Thumbnail,
	}, nil
}
