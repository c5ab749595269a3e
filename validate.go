package cvforge

import (
	"github.com/alnah/go-cvforge/internal/schema"
)

// Check validates a CV document without rendering anything. It first runs
// the structural JSON Schema check, then the full semantic pass (entry-kind
// homogeneity, date ordering, contact formats). All problems found are
// aggregated into a ValidationErrors.
func Check(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyInput
	}
	if err := schema.Check(data); err != nil {
		return err
	}
	_, err := schema.Parse(data)
	return err
}

// Schema returns the JSON Schema describing valid CV input, for editor
// integrations and external validators.
func Schema() ([]byte, error) {
	return schema.JSONSchema()
}
