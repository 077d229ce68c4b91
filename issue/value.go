package issue

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNoAttribute is returned by Attr when a value has no such sub-attribute.
var ErrNoAttribute = errors.New("issue: attribute not found")

// Attr extracts a named sub-attribute from a structured field value.
func Attr(v any, key string) (any, error) {
	switch obj := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: %q of absent value", ErrNoAttribute, key)
	case map[string]any:
		attr, ok := obj[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoAttribute, key)
		}
		return attr, nil
	case map[string]string:
		attr, ok := obj[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoAttribute, key)
		}
		return attr, nil
	default:
		return nil, fmt.Errorf("%w: %q of %T", ErrNoAttribute, key, v)
	}
}

// Truthy reports whether a value counts as "set": not nil, not an empty
// string, not zero and not false.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return true
	}
}

// Text renders a field value for display. Absent values render as "".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
