// Package design resolves a theme's default design configuration against
// user-supplied overrides into one fully typed configuration.
package design

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-cvforge/internal/dateutil"
)

// Sentinel errors for design resolution.
var (
	ErrUnknownOption = errors.New("unknown design option")
	ErrInvalidOption = errors.New("invalid design option")
	ErrNoDefaults    = errors.New("theme declares no design defaults")
	ErrInvalidPreset = errors.New("invalid design defaults shipped with theme")
)

// Page size identifiers accepted by the typesetting engine.
const (
	PageSizeA4       = "a4"
	PageSizeUSLetter = "us-letter"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Design is the fully resolved set of visual options for one render.
// Constructed once per invocation and immutable thereafter.
type Design struct {
	Theme    string         `yaml:"theme"`
	Page     PageOptions    `yaml:"page"`
	Colors   ColorOptions   `yaml:"colors"`
	Text     TextOptions    `yaml:"text"`
	Header   HeaderOptions  `yaml:"header"`
	Dates    DateOptions    `yaml:"dates"`
	Sections SectionOptions `yaml:"sections"`
}

// PageOptions sets physical page geometry.
type PageOptions struct {
	Size            string `yaml:"size"`
	MarginTop       string `yaml:"margin_top"`
	MarginBottom    string `yaml:"margin_bottom"`
	MarginLeft      string `yaml:"margin_left"`
	MarginRight     string `yaml:"margin_right"`
	ShowPageNumbers bool   `yaml:"show_page_numbers"`
}

// ColorOptions are hex colors for the document's visual roles.
type ColorOptions struct {
	Text     string `yaml:"text"`
	Name     string `yaml:"name"`
	Headings string `yaml:"headings"`
	Links    string `yaml:"links"`
}

// TextOptions set body typography.
type TextOptions struct {
	FontFamily string `yaml:"font_family"`
	FontSize   string `yaml:"font_size"`
	Leading    string `yaml:"leading"`
	Alignment  string `yaml:"alignment"`
}

// HeaderOptions style the identity block at the top of the document.
type HeaderOptions struct {
	NameFontSize        string `yaml:"name_font_size"`
	ConnectionSeparator string `yaml:"connection_separator"`
}

// DateOptions control how DateValues render.
type DateOptions struct {
	// Format uses the dateutil token syntax, e.g. "MMMM YYYY".
	Format       string `yaml:"format"`
	PresentLabel string `yaml:"present_label"`
}

// SectionOptions control section layout and ordering.
type SectionOptions struct {
	// Ordering overrides the input order; unlisted sections follow in
	// input order after the listed ones.
	Ordering []string `yaml:"ordering"`
	// BreakBefore lists section titles that request a page break.
	BreakBefore           []string `yaml:"break_before"`
	SpacingBetweenEntries string   `yaml:"spacing_between_entries"`
}

// Validate checks a resolved Design for option-level invariants.
func (d *Design) Validate() error {
	switch strings.ToLower(d.Page.Size) {
	case PageSizeA4, PageSizeUSLetter:
	default:
		return fmt.Errorf("%w: page.size %q (must be %s or %s)", ErrInvalidOption, d.Page.Size, PageSizeA4, PageSizeUSLetter)
	}

	for _, c := range []struct{ path, value string }{
		{"colors.text", d.Colors.Text},
		{"colors.name", d.Colors.Name},
		{"colors.headings", d.Colors.Headings},
		{"colors.links", d.Colors.Links},
	} {
		if c.value != "" && !hexColorPattern.MatchString(c.value) {
			return fmt.Errorf("%w: %s %q is not a hex color", ErrInvalidOption, c.path, c.value)
		}
	}

	if d.Dates.Format != "" {
		if _, err := dateutil.ParseDateFormat(d.Dates.Format); err != nil {
			return fmt.Errorf("%w: dates.format: %v", ErrInvalidOption, err)
		}
	}

	switch d.Text.Alignment {
	case "", "left", "justified":
	default:
		return fmt.Errorf("%w: text.alignment %q (must be left or justified)", ErrInvalidOption, d.Text.Alignment)
	}

	return nil
}

// BreaksBefore reports whether the design requests a page break before the
// named section.
func (d *Design) BreaksBefore(sectionTitle string) bool {
	for _, t := range d.Sections.BreakBefore {
		if strings.EqualFold(t, sectionTitle) {
			return true
		}
	}
	return false
}

// OrderSections applies the ordering override to the input-order titles.
// Listed titles come first in override order; the rest keep input order.
func (d *Design) OrderSections(inputOrder []string) []string {
	if len(d.Sections.Ordering) == 0 {
		return inputOrder
	}

	seen := make(map[string]bool, len(inputOrder))
	ordered := make([]string, 0, len(inputOrder))
	for _, title := range d.Sections.Ordering {
		for _, in := range inputOrder {
			if strings.EqualFold(in, title) && !seen[in] {
				ordered = append(ordered, in)
				seen[in] = true
			}
		}
	}
	for _, in := range inputOrder {
		if !seen[in] {
			ordered = append(ordered, in)
		}
	}
	return ordered
}
