package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for schema operations.
var (
	ErrInvalidDocument = errors.New("input is not a mapping document")
	ErrValidation      = errors.New("CV validation failed")
)

// FieldError locates one validation failure at a field path such as
// "sections.experience[2].start_date". Value holds the offending raw value.
type FieldError struct {
	Path   string
	Value  any
	Reason string
}

func (e FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: %s (got %v)", e.Path, e.Reason, e.Value)
}

// ErrorList aggregates every validation failure found in one pass. Validation
// never stops at the first error; callers receive the full ordered set.
type ErrorList []FieldError

func (l ErrorList) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation error(s):\n", len(l))
	for i, e := range l {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, e.Error())
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Is reports true for ErrValidation so callers can classify with errors.Is
// without inspecting the concrete type.
func (l ErrorList) Is(target error) bool {
	return target == ErrValidation
}

// errorCollector accumulates FieldErrors while walking the raw tree.
type errorCollector struct {
	errs ErrorList
}

func (c *errorCollector) add(path string, value any, reason string) {
	c.errs = append(c.errs, FieldError{Path: path, Value: value, Reason: reason})
}

func (c *errorCollector) addf(path string, value any, format string, args ...any) {
	c.add(path, value, fmt.Sprintf(format, args...))
}

func (c *errorCollector) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs
}

// childPath joins a parent path with a field name.
func childPath(parent, field string) string {
	if parent == "" {
		return field
	}
	return parent + "." + field
}

// indexPath appends a list index to a path.
func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}
