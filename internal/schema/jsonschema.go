package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	gojsonschema "github.com/xeipuuv/gojsonschema"

	"github.com/alnah/go-cvforge/internal/yamlutil"
)

// dateJSONPattern mirrors the forms ParseDate accepts.
const dateJSONPattern = `^(\d{4}(-\d{2}){0,2}|present)$`

// documentSchema mirrors the raw input document shape for JSON Schema
// generation. It exists only for reflection; parsing goes through Parse.
type documentSchema struct {
	Name           string                   `json:"name"`
	Label          string                   `json:"label,omitempty"`
	Location       string                   `json:"location,omitempty"`
	Email          string                   `json:"email,omitempty"`
	Phone          string                   `json:"phone,omitempty"`
	Website        string                   `json:"website,omitempty"`
	SocialNetworks []socialNetworkSchema    `json:"social_networks,omitempty"`
	Sections       map[string][]entrySchema `json:"sections,omitempty"`
}

type socialNetworkSchema struct {
	Network  string `json:"network"`
	Username string `json:"username"`
	URL      string `json:"url,omitempty"`
}

// entrySchema stands in for the polymorphic entry position; its JSON Schema
// is a oneOf across the closed EntryKind set.
type entrySchema struct{}

// JSONSchema implements the invopop/jsonschema customization hook.
func (entrySchema) JSONSchema() *jsonschema.Schema {
	str := func() *jsonschema.Schema { return &jsonschema.Schema{Type: "string"} }
	date := func() *jsonschema.Schema {
		return &jsonschema.Schema{Type: "string", Pattern: dateJSONPattern}
	}
	strList := func() *jsonschema.Schema {
		return &jsonschema.Schema{Type: "array", Items: str()}
	}

	experience := entryVariant("experience", []string{"company", "position"}, [][2]any{
		{"company", str()}, {"position", str()}, {"location", str()},
		{"start_date", date()}, {"end_date", date()},
		{"summary", str()}, {"highlights", strList()},
	})
	education := entryVariant("education", []string{"institution", "area"}, [][2]any{
		{"institution", str()}, {"area", str()}, {"degree", str()},
		{"location", str()}, {"start_date", date()}, {"end_date", date()},
		{"highlights", strList()},
	})
	publication := entryVariant("publication", []string{"title", "authors"}, [][2]any{
		{"title", str()}, {"authors", strList()}, {"venue", str()},
		{"date", date()}, {"doi", str()}, {"url", str()},
	})
	project := entryVariant("project", []string{"name"}, [][2]any{
		{"name", str()}, {"date", date()}, {"url", str()},
		{"summary", str()}, {"highlights", strList()},
	})
	skill := entryVariant("skill", []string{"label", "details"}, [][2]any{
		{"label", str()}, {"details", str()},
	})
	bullet := &jsonschema.Schema{Title: "bullet", Type: "string", MinLength: ptr(uint64(1))}

	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{experience, education, publication, project, skill, bullet},
	}
}

// entryVariant builds the object schema for one EntryKind.
func entryVariant(title string, required []string, fields [][2]any) *jsonschema.Schema {
	props := orderedmap.New[string, *jsonschema.Schema]()
	for _, f := range fields {
		props.Set(f[0].(string), f[1].(*jsonschema.Schema))
	}
	return &jsonschema.Schema{
		Title:                title,
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

func ptr[T any](v T) *T { return &v }

// JSONSchema returns the machine-readable description of valid input, for
// external editor tooling and for Check.
func JSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	s := r.Reflect(&documentSchema{})
	s.Title = "CV"
	s.Description = "Structured curriculum vitae input document."

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON schema: %w", err)
	}
	return out, nil
}

// Check validates a raw YAML document against the generated JSON Schema
// without building a CVModel. Failures come back as an ErrorList. This backs
// the fast pre-render check path; Parse remains the authority on semantics
// the schema language cannot express (entry-kind homogeneity, date ordering).
func Check(data []byte) error {
	var doc any
	if err := yamlutil.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing CV input: %w", err)
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting input to JSON: %w", err)
	}

	schemaJSON, err := JSONSchema()
	if err != nil {
		return err
	}

	res, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(docJSON),
	)
	if err != nil {
		return fmt.Errorf("running schema validation: %w", err)
	}
	if res.Valid() {
		return nil
	}

	var list ErrorList
	for _, e := range res.Errors() {
		list = append(list, FieldError{
			Path:   e.Field(),
			Value:  e.Value(),
			Reason: e.Description(),
		})
	}
	return list
}
