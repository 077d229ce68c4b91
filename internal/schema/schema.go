// Package schema validates decoded configuration documents against JSON
// Schema definitions.
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator validates documents against named JSON Schema definitions.
// Compiled schemas are cached by name.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewValidator creates a new schema validator.
func NewValidator() *Validator {
	return &Validator{
		cache: make(map[string]*jsonschema.Schema),
	}
}

// Validate checks data against the schema registered under name. The schema
// source is compiled on first use. data must be a decoded JSON value
// (map[string]any, []any, string, float64, bool or nil).
func (v *Validator) Validate(name string, source []byte, data any) error {
	compiled, err := v.compile(name, source)
	if err != nil {
		return fmt.Errorf("schema %s: compile: %w", name, err)
	}

	return compiled.Validate(data)
}

// compile returns a compiled schema, using the cache for previously-seen names.
func (v *Validator) compile(name string, source []byte) (*jsonschema.Schema, error) {
	v.mu.RLock()
	if cached, ok := v.cache[name]; ok {
		v.mu.RUnlock()
		return cached, nil
	}
	v.mu.RUnlock()

	var doc any
	if err := json.Unmarshal(source, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	url := "herald://schema/" + name

	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	v.mu.Lock()
	v.cache[name] = compiled
	v.mu.Unlock()

	return compiled, nil
}
