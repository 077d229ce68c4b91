package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	yaml "go.yaml.in/yaml/v3"

	"github.com/xraph/herald/internal/schema"
	"github.com/xraph/herald/message"
)

// EnvPrefix prefixes every environment override, e.g. HERALD_SERVER_ADDR.
const EnvPrefix = "HERALD"

//go:embed watchers.schema.json
var watchersSchema []byte

var schemas = schema.NewValidator()

// ErrorType categorizes configuration loading failures.
type ErrorType string

const (
	// ErrRead indicates the configuration file could not be read.
	ErrRead ErrorType = "READ_FAILED"
	// ErrParsing indicates malformed YAML/JSON or an unparsable env value.
	ErrParsing ErrorType = "PARSING_FAILED"
	// ErrSchema indicates the watcher section failed JSON Schema validation.
	ErrSchema ErrorType = "SCHEMA_FAILED"
	// ErrValidation indicates the merged configuration failed struct validation.
	ErrValidation ErrorType = "VALIDATION_FAILED"
)

// Error is returned by Load.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsType reports whether err is a config Error of the given type.
func IsType(err error, t ErrorType) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Type == t
}

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment are used. A .env file in the working
// directory is loaded first and never overrides variables already set.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &Error{Type: ErrRead, Message: "failed to read " + path, Err: err}
		}
		if err := decodeFile(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, &Error{Type: ErrParsing, Message: "failed to process environment configuration", Err: err}
	}

	if err := newValidator().Struct(cfg); err != nil {
		return nil, &Error{Type: ErrValidation, Message: "configuration validation failed", Err: err}
	}

	return cfg, nil
}

// decodeFile parses YAML (a superset of JSON) into cfg. Unknown keys are
// rejected.
func decodeFile(data []byte, cfg *Config) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &Error{Type: ErrParsing, Message: "invalid YAML", Err: err}
	}
	if doc == nil {
		return nil
	}
	doc = schema.Normalize(doc)

	if m, ok := doc.(map[string]any); ok {
		if w, ok := m["watchers"]; ok {
			if err := schemas.Validate("watchers", watchersSchema, w); err != nil {
				return &Error{Type: ErrSchema, Message: "invalid watchers section", Err: err}
			}
		}
	}

	js, err := json.Marshal(doc)
	if err != nil {
		return &Error{Type: ErrParsing, Message: "failed to re-encode document", Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(js))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return &Error{Type: ErrParsing, Message: "invalid configuration document", Err: err}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return &Error{Type: ErrParsing, Message: "trailing data after configuration document"}
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("color", func(fl validator.FieldLevel) bool {
		return message.Color(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d > 0
	})
	return v
}
