package schema_test

import (
	"testing"

	"github.com/xraph/herald/internal/schema"
)

var personSchema = []byte(`{
	"type": "object",
	"properties": {
		"name":  {"type": "string"},
		"count": {"type": "integer"}
	},
	"required": ["name"],
	"additionalProperties": false
}`)

func TestValidatorValidDocument(t *testing.T) {
	v := schema.NewValidator()

	if err := v.Validate("person", personSchema, map[string]any{"name": "jane", "count": 2.0}); err != nil {
		t.Fatal("valid document should pass, got:", err)
	}
}

func TestValidatorMissingRequired(t *testing.T) {
	v := schema.NewValidator()

	if err := v.Validate("person", personSchema, map[string]any{"count": 1.0}); err == nil {
		t.Fatal("expected validation error for missing required field")
	}
}

func TestValidatorWrongType(t *testing.T) {
	v := schema.NewValidator()

	if err := v.Validate("person", personSchema, map[string]any{"name": "jane", "count": "many"}); err == nil {
		t.Fatal("expected validation error for wrong type")
	}
}

func TestValidatorUnknownProperty(t *testing.T) {
	v := schema.NewValidator()

	if err := v.Validate("person", personSchema, map[string]any{"name": "jane", "extra": true}); err == nil {
		t.Fatal("expected validation error for unknown property")
	}
}

func TestValidatorCachesByName(t *testing.T) {
	v := schema.NewValidator()

	if err := v.Validate("person", personSchema, map[string]any{"name": "a"}); err != nil {
		t.Fatal(err)
	}
	// The cached schema is used even when the source is no longer supplied.
	if err := v.Validate("person", nil, map[string]any{"name": "b"}); err != nil {
		t.Fatal("expected cached schema to be reused, got:", err)
	}
}

func TestValidatorBadSchema(t *testing.T) {
	v := schema.NewValidator()

	if err := v.Validate("broken", []byte(`{not json`), map[string]any{}); err == nil {
		t.Fatal("expected compile error for malformed schema")
	}
}

func TestNormalize(t *testing.T) {
	in := map[string]any{
		"list":   []any{1, map[any]any{2: "two"}},
		"nested": map[any]any{"count": 3},
	}

	out := schema.Normalize(in).(map[string]any)

	list := out["list"].([]any)
	if list[0] != 1.0 {
		t.Fatalf("expected float64 1, got %#v", list[0])
	}
	if m, ok := list[1].(map[string]any); !ok || m["2"] != "two" {
		t.Fatalf("expected string-keyed map, got %#v", list[1])
	}
	if out["nested"].(map[string]any)["count"] != 3.0 {
		t.Fatalf("nested count not normalized: %#v", out["nested"])
	}
}
