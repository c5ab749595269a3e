package render

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/nyaruka/phonenumbers"

	"github.com/alnah/go-cvforge/internal/design"
	"github.com/alnah/go-cvforge/internal/schema"
	"github.com/alnah/go-cvforge/internal/theme"
)

// Sentinel errors for template expansion.
var (
	// ErrTemplateParse indicates a fragment that is not valid template
	// source: a theme packaging defect.
	ErrTemplateParse = errors.New("theme template failed to parse")
	// ErrFieldUnsupported indicates a fragment referencing a field the
	// entry kind does not declare. This is a theme/version mismatch, not a
	// user input error, and halts the pipeline.
	ErrFieldUnsupported = errors.New("template references a field unsupported by the entry kind")
)

// Target selects the output syntax the engine emits.
type Target int

const (
	TargetTypst Target = iota
	TargetMarkdown
)

// Connection is one contact item in the document header.
type Connection struct {
	Label string
	URL   string
}

// PreambleData is handed to the preamble and postamble fragments.
type PreambleData struct {
	CV          *schema.CVModel
	Design      *design.Design
	Connections []Connection
}

// SectionData is handed to the per-section fragment.
type SectionData struct {
	Title       string
	Kind        schema.EntryKind
	BreakBefore bool
	EntryCount  int
	Design      *design.Design
}

// EntryData is handed to the per-entry-kind fragment. Entry holds the
// concrete entry struct, so a fragment referencing an undeclared field fails
// execution instead of rendering an empty string.
type EntryData struct {
	Entry   schema.Entry
	Section string
	Index   int
	Last    bool
	Design  *design.Design
}

// Engine expands one theme's fragments for one target syntax. Safe for
// concurrent use once constructed; it never mutates its inputs.
type Engine struct {
	target Target
	design *design.Design
	tmpl   *template.Template
}

// NewTypstEngine builds an engine emitting Typst source from the theme's
// fragment set.
func NewTypstEngine(th *theme.Theme, d *design.Design) (*Engine, error) {
	return newEngine(TargetTypst, th.Fragments, d)
}

// NewMarkdownEngine builds an engine emitting the lightweight-markup
// rendition from the shared Markdown fragment set.
func NewMarkdownEngine(fragments map[string]string, d *design.Design) (*Engine, error) {
	return newEngine(TargetMarkdown, fragments, d)
}

func newEngine(target Target, fragments map[string]string, d *design.Design) (*Engine, error) {
	e := &Engine{target: target, design: d}

	root := template.New("root").Funcs(e.funcs()).Option("missingkey=error")
	for slot, src := range fragments {
		if _, err := root.New(slot).Parse(src); err != nil {
			return nil, fmt.Errorf("%w: fragment %q: %v", ErrTemplateParse, slot, err)
		}
	}
	e.tmpl = root
	return e, nil
}

// funcs returns the helper set for the engine's target syntax.
func (e *Engine) funcs() template.FuncMap {
	escape := EscapeTypst
	escapeString := EscapeTypstString
	markup := MarkupToTypst
	if e.target == TargetMarkdown {
		escape = EscapeMarkdown
		escapeString = func(s string) string { return s }
		// Free-text fields already carry the restricted markup.
		markup = func(s string) (string, error) { return s, nil }
	}

	dateOpts := func() design.DateOptions { return e.design.Dates }

	return template.FuncMap{
		"escape": escape,
		"estr":   escapeString,
		"markup": markup,
		"date": func(d schema.DateValue) string {
			return FormatDate(d, dateOpts())
		},
		"daterange": func(start, end schema.DateValue) string {
			return FormatRange(start, end, dateOpts())
		},
		"authors": func(list []string) string {
			escaped := make([]string, len(list))
			for i, a := range list {
				escaped[i] = escape(a)
			}
			return strings.Join(escaped, ", ")
		},
		"join": strings.Join,
	}
}

// Render expands the full document: preamble, each section with its entries
// in design order, then the postamble.
func (e *Engine) Render(cv *schema.CVModel) (string, error) {
	var sb strings.Builder

	pre := PreambleData{CV: cv, Design: e.design, Connections: e.connections(cv)}
	if err := e.exec(&sb, theme.SlotPreamble, pre); err != nil {
		return "", err
	}

	for _, title := range e.design.OrderSections(cv.SectionTitles()) {
		sec := cv.SectionByTitle(title)
		if sec == nil {
			continue
		}

		sd := SectionData{
			Title:       sec.Title,
			Kind:        sec.Kind,
			BreakBefore: e.design.BreaksBefore(sec.Title),
			EntryCount:  len(sec.Entries),
			Design:      e.design,
		}
		if err := e.exec(&sb, theme.SlotSection, sd); err != nil {
			return "", err
		}

		for i, entry := range sec.Entries {
			ed := EntryData{
				Entry:   entry,
				Section: sec.Title,
				Index:   i,
				Last:    i == len(sec.Entries)-1,
				Design:  e.design,
			}
			if err := e.exec(&sb, string(sec.Kind), ed); err != nil {
				return "", err
			}
		}
	}

	if err := e.exec(&sb, theme.SlotPostamble, pre); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// exec runs one named fragment. Execution failures are theme contract
// violations and carry the fragment name for diagnosis.
func (e *Engine) exec(sb *strings.Builder, name string, data any) error {
	if err := e.tmpl.ExecuteTemplate(sb, name, data); err != nil {
		return fmt.Errorf("%w: fragment %q: %v", ErrFieldUnsupported, name, err)
	}
	return nil
}

// connections assembles the header contact items in a fixed order.
func (e *Engine) connections(cv *schema.CVModel) []Connection {
	var conns []Connection
	if cv.Location != "" {
		conns = append(conns, Connection{Label: cv.Location})
	}
	if cv.Email != "" {
		conns = append(conns, Connection{Label: cv.Email, URL: "mailto:" + cv.Email})
	}
	if cv.Phone != "" {
		label := cv.Phone
		if num, err := phonenumbers.Parse(cv.Phone, ""); err == nil {
			label = phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
		}
		conns = append(conns, Connection{Label: label, URL: "tel:" + strings.ReplaceAll(cv.Phone, " ", "")})
	}
	if cv.Website != "" {
		conns = append(conns, Connection{Label: displayURL(cv.Website), URL: cv.Website})
	}
	for _, s := range cv.Social {
		label := s.Network + "/" + s.Username
		conns = append(conns, Connection{Label: label, URL: s.URL})
	}
	return conns
}

// displayURL strips the scheme and trailing slash for header display.
func displayURL(u string) string {
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	return strings.TrimSuffix(u, "/")
}
