package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestJSONSchemaIsValidJSON(t *testing.T) {
	t.Parallel()

	out, err := JSONSchema()
	if err != nil {
		t.Fatalf("JSONSchema() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("schema output is not valid JSON: %v", err)
	}
	if doc["title"] != "CV" {
		t.Errorf("title = %v, want CV", doc["title"])
	}
	if !strings.Contains(string(out), "oneOf") {
		t.Error("schema should describe entries as a oneOf of kinds")
	}
}

func TestCheckAcceptsValidDocument(t *testing.T) {
	t.Parallel()

	input := []byte(`
name: Ada Lovelace
email: ada@example.org
sections:
  experience:
    - company: Analytical Engines Ltd
      position: Programmer
      start_date: "1843"
  notes:
    - First algorithm published.
`)
	if err := Check(input); err != nil {
		t.Errorf("Check() error = %v, want nil", err)
	}
}

func TestCheckRejectsBadDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "missing name",
			input: "email: ada@example.org\n",
		},
		{
			name: "unknown entry field",
			input: `
name: Ada Lovelace
sections:
  experience:
    - company: Analytical Engines Ltd
      position: Programmer
      surprise: true
`,
		},
		{
			name: "malformed date literal",
			input: `
name: Ada Lovelace
sections:
  experience:
    - company: Analytical Engines Ltd
      position: Programmer
      start_date: someday
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Check([]byte(tt.input))
			if err == nil {
				t.Fatal("Check() = nil, want error")
			}
			var list ErrorList
			if !errors.As(err, &list) {
				t.Fatalf("Check() error = %T, want ErrorList", err)
			}
			if len(list) == 0 {
				t.Error("expected at least one field error")
			}
		})
	}
}
