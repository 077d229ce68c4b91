// Package catalog holds the ordered table of watchable issue changes and the
// matcher that turns a mutation snapshot into notification drafts.
//
// A Catalog is built once at startup and is read-only afterwards; it is safe
// for concurrent use.
package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDescriptor is returned when a descriptor can never match.
	ErrInvalidDescriptor = errors.New("catalog: invalid descriptor")

	// ErrAttributeMissing is returned when a NameKey cannot be read from a
	// matched field value.
	ErrAttributeMissing = errors.New("catalog: name attribute missing")
)

// Catalog is an ordered, immutable list of descriptors. Order decides the
// display order of drafts and which draft owns styling.
type Catalog struct {
	descriptors []Descriptor
}

// New builds a catalog, rejecting any descriptor that cannot match.
func New(descriptors ...Descriptor) (*Catalog, error) {
	for i, d := range descriptors {
		if err := d.Validate(); err != nil {
			var de *DescriptorError
			if errors.As(err, &de) {
				de.Index = i
			}
			return nil, fmt.Errorf("catalog: entry %d: %w", i, err)
		}
	}

	ds := make([]Descriptor, len(descriptors))
	copy(ds, descriptors)
	return &Catalog{descriptors: ds}, nil
}

// MustNew is like New but panics on an invalid descriptor. Use it for
// catalogs declared in code.
func MustNew(descriptors ...Descriptor) *Catalog {
	c, err := New(descriptors...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int { return len(c.descriptors) }

// Descriptors returns a copy of the descriptors in catalog order.
func (c *Catalog) Descriptors() []Descriptor {
	out := make([]Descriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}
