package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	yaml "go.yaml.in/yaml/v3"

	"github.com/xraph/herald/internal/schema"
	"github.com/xraph/herald/issue"
	"github.com/xraph/herald/message"
)

//go:embed catalog.schema.json
var fileSchema []byte

// Predicates are the match functions a catalog file may refer to by name.
var Predicates = map[string]func(*issue.Snapshot) bool{
	"comment.added":  CommentAdded,
	"issue.reported": BecomesReported,
	"issue.resolved": BecomesResolved,
}

// Extractors are the value functions a catalog file may refer to by name.
var Extractors = map[string]func(*issue.Snapshot) any{
	"comment.text": CommentText,
	"issue.id":     IssueID,
}

var validator = schema.NewValidator()

type fileEntry struct {
	Title             string `json:"title"`
	NewDescription    string `json:"new_description"`
	ChangeDescription string `json:"change_description"`
	FieldKey          string `json:"field_key"`
	NameKey           string `json:"name_key"`
	Color             string `json:"color"`
	Thumbnail         string `json:"thumbnail"`
	Match             string `json:"match"`
	Value             string `json:"value"`
}

type fileCatalog struct {
	Events []fileEntry `json:"events"`
}

// Load reads a declarative catalog in YAML or JSON:
//
//	events:
//	  - title: Stage Changed
//	    new_description: Stage set to $newValue.
//	    change_description: Stage changed from $oldValue to $newValue.
//	    field_key: Stage
//	    name_key: name
//	  - title: Comment Added
//	    new_description: $newValue
//	    match: comment.added
//	    value: comment.text
//
// The document is checked against the catalog JSON Schema, named functions
// are resolved through Predicates and Extractors, and the result goes
// through New, so an entry with neither field_key nor match is rejected.
func Load(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: read: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	doc = schema.Normalize(doc)

	if err := validator.Validate("catalog", fileSchema, doc); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	// Round-trip through JSON so the entry structs share the schema's names.
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("catalog: encode: %w", err)
	}
	var fc fileCatalog
	if err := json.Unmarshal(js, &fc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	descriptors := make([]Descriptor, 0, len(fc.Events))
	for i, e := range fc.Events {
		d := Descriptor{
			Title:             e.Title,
			NewDescription:    e.NewDescription,
			ChangeDescription: e.ChangeDescription,
			FieldKey:          e.FieldKey,
			NameKey:           e.NameKey,
			Color:             message.Color(e.Color),
			Thumbnail:         e.Thumbnail,
		}
		if e.Match != "" {
			fn, ok := Predicates[e.Match]
			if !ok {
				return nil, fmt.Errorf("catalog: entry %d: unknown match function %q", i, e.Match)
			}
			d.Match = fn
		}
		if e.Value != "" {
			fn, ok := Extractors[e.Value]
			if !ok {
				return nil, fmt.Errorf("catalog: entry %d: unknown value function %q", i, e.Value)
			}
			d.Value = fn
		}
		descriptors = append(descriptors, d)
	}

	return New(descriptors...)
}
