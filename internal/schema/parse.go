package schema

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/nyaruka/phonenumbers"

	"github.com/alnah/go-cvforge/internal/yamlutil"
)

// validate performs field-level format checks (email, URL). Safe for
// concurrent use, so shared across renders.
var validate = validator.New()

// Parse turns a raw YAML document into a validated CVModel. On failure the
// returned error is an ErrorList carrying every problem found in one pass,
// or a wrapped parse error when the document is not valid YAML at all.
func Parse(data []byte) (*CVModel, error) {
	var raw any
	if err := yamlutil.UnmarshalOrdered(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing CV input: %w", err)
	}

	root, ok := raw.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidDocument, raw)
	}

	col := &errorCollector{}
	model := &CVModel{}
	seenName := false

	for _, item := range root {
		key, ok := item.Key.(string)
		if !ok {
			col.addf(fmt.Sprint(item.Key), item.Key, "top-level key must be a string")
			continue
		}

		switch key {
		case "name":
			model.Name = asString(key, item.Value, col)
			seenName = model.Name != ""
		case "label":
			model.Label = asString(key, item.Value, col)
		case "location":
			model.Location = asString(key, item.Value, col)
		case "email":
			model.Email = asString(key, item.Value, col)
		case "phone":
			model.Phone = asString(key, item.Value, col)
		case "website":
			model.Website = asString(key, item.Value, col)
		case "social_networks":
			model.Social = parseSocialNetworks(key, item.Value, col)
		case "sections":
			model.Sections = parseSections(key, item.Value, col)
		default:
			col.add(key, item.Value, "unknown field")
		}
	}

	if !seenName {
		col.add("name", nil, "required field is missing")
	}

	validateContact(model, col)

	if err := col.err(); err != nil {
		return nil, err
	}
	return model, nil
}

// validateContact enforces the contact-field format invariants.
func validateContact(m *CVModel, col *errorCollector) {
	if m.Email != "" {
		if err := validate.Var(m.Email, "email"); err != nil {
			col.add("email", m.Email, "not a valid email address")
		} else if at := strings.LastIndex(m.Email, "@"); at < 0 || !strings.Contains(m.Email[at+1:], ".") {
			col.add("email", m.Email, "email domain is not plausible")
		}
	}

	if m.Phone != "" {
		num, err := phonenumbers.Parse(m.Phone, "")
		if err != nil {
			col.add("phone", m.Phone, "not an international phone number (use +<country code> prefix)")
		} else if !phonenumbers.IsValidNumber(num) {
			col.add("phone", m.Phone, "not a valid phone number")
		}
	}

	if m.Website != "" {
		if err := validate.Var(m.Website, "http_url"); err != nil {
			col.add("website", m.Website, "not a well-formed URL")
		}
	}

	for i, s := range m.Social {
		if s.URL == "" {
			continue
		}
		if err := validate.Var(s.URL, "http_url"); err != nil {
			col.add(childPath(indexPath("social_networks", i), "url"), s.URL, "not a well-formed URL")
		}
	}
}

// parseSocialNetworks parses the social_networks list.
func parseSocialNetworks(path string, v any, col *errorCollector) []SocialLink {
	items, ok := v.([]any)
	if !ok {
		col.add(path, v, "must be a list")
		return nil
	}

	links := make([]SocialLink, 0, len(items))
	for i, raw := range items {
		p := indexPath(path, i)
		m, ok := raw.(yaml.MapSlice)
		if !ok {
			col.add(p, raw, "must be a mapping with network and username")
			continue
		}

		var link SocialLink
		for _, item := range m {
			key, _ := item.Key.(string)
			switch key {
			case "network":
				link.Network = asString(childPath(p, "network"), item.Value, col)
			case "username":
				link.Username = asString(childPath(p, "username"), item.Value, col)
			case "url":
				link.URL = asString(childPath(p, "url"), item.Value, col)
			default:
				col.add(childPath(p, key), item.Value, "unknown field")
			}
		}

		if link.Network == "" {
			col.add(childPath(p, "network"), nil, "required field is missing")
		}
		if link.Username == "" {
			col.add(childPath(p, "username"), nil, "required field is missing")
		}
		if link.URL == "" && link.Network != "" && link.Username != "" {
			link.URL = networkProfileURL(link.Network, link.Username)
			if link.URL == "" {
				col.add(childPath(p, "network"), link.Network, "unknown network; supply an explicit url")
			}
		}

		links = append(links, link)
	}
	return links
}

// networkProfileURL derives a profile URL for well-known networks.
func networkProfileURL(network, username string) string {
	switch strings.ToLower(network) {
	case "linkedin":
		return "https://linkedin.com/in/" + username
	case "github":
		return "https://github.com/" + username
	case "gitlab":
		return "https://gitlab.com/" + username
	case "orcid":
		return "https://orcid.org/" + username
	case "mastodon":
		// username is @user@instance
		parts := strings.Split(strings.TrimPrefix(username, "@"), "@")
		if len(parts) == 2 {
			return "https://" + parts[1] + "/@" + parts[0]
		}
		return ""
	default:
		return ""
	}
}

// parseSections walks the ordered sections mapping.
func parseSections(path string, v any, col *errorCollector) []Section {
	m, ok := v.(yaml.MapSlice)
	if !ok {
		col.add(path, v, "must be a mapping from section title to entry list")
		return nil
	}

	sections := make([]Section, 0, len(m))
	for _, item := range m {
		title, ok := item.Key.(string)
		if !ok {
			col.addf(path, item.Key, "section title must be a string, got %T", item.Key)
			continue
		}

		sec := parseSection(childPath(path, title), title, item.Value, col)
		if sec != nil {
			sections = append(sections, *sec)
		}
	}
	return sections
}

// parseSection parses one section's entry list. The first entry fixes the
// EntryKind; later entries of a different shape produce an error located at
// their index but do not abort the section.
func parseSection(path, title string, v any, col *errorCollector) *Section {
	items, ok := v.([]any)
	if !ok {
		col.add(path, v, "section must be a list of entries")
		return nil
	}
	if len(items) == 0 {
		col.add(path, nil, "section must contain at least one entry")
		return nil
	}

	kind, ok := inferKind(items[0])
	if !ok {
		col.add(indexPath(path, 0), items[0], "cannot determine entry kind from fields present")
		return nil
	}

	sec := &Section{Title: title, Kind: kind}
	for i, raw := range items {
		p := indexPath(path, i)

		if got, ok := inferKind(raw); ok && got != kind {
			col.addf(p, nil, "mixed entry kinds in one section: section is %s, entry looks like %s", kind, got)
			continue
		}

		entry := parseEntry(p, kind, raw, col)
		if entry != nil {
			sec.Entries = append(sec.Entries, entry)
		}
	}
	return sec
}

// inferKind determines the entry shape from the fields present.
func inferKind(raw any) (EntryKind, bool) {
	if _, ok := raw.(string); ok {
		return KindBullet, true
	}

	m, ok := raw.(yaml.MapSlice)
	if !ok {
		return "", false
	}

	has := func(field string) bool {
		for _, item := range m {
			if k, _ := item.Key.(string); k == field {
				return true
			}
		}
		return false
	}

	switch {
	case has("company") || has("position"):
		return KindExperience, true
	case has("institution") || has("degree"):
		return KindEducation, true
	case has("title") && has("authors"):
		return KindPublication, true
	case has("label"):
		return KindSkill, true
	case has("name"):
		return KindProject, true
	default:
		return "", false
	}
}

// parseEntry dispatches to the per-kind parser.
func parseEntry(path string, kind EntryKind, raw any, col *errorCollector) Entry {
	if kind == KindBullet {
		s, ok := raw.(string)
		if !ok {
			col.add(path, raw, "bullet entry must be a plain string")
			return nil
		}
		if strings.TrimSpace(s) == "" {
			col.add(path, raw, "bullet entry must not be empty")
			return nil
		}
		return BulletEntry{Text: s}
	}

	m, ok := raw.(yaml.MapSlice)
	if !ok {
		col.addf(path, raw, "%s entry must be a mapping", kind)
		return nil
	}

	before := len(col.errs)
	var entry Entry
	switch kind {
	case KindExperience:
		entry = parseExperience(path, m, col)
	case KindEducation:
		entry = parseEducation(path, m, col)
	case KindPublication:
		entry = parsePublication(path, m, col)
	case KindProject:
		entry = parseProject(path, m, col)
	case KindSkill:
		entry = parseSkill(path, m, col)
	}

	if len(col.errs) > before {
		return nil
	}
	return entry
}

func parseExperience(path string, m yaml.MapSlice, col *errorCollector) Entry {
	var e ExperienceEntry
	for _, item := range m {
		key, _ := item.Key.(string)
		p := childPath(path, key)
		switch key {
		case "company":
			e.Company = asString(p, item.Value, col)
		case "position":
			e.Position = asString(p, item.Value, col)
		case "location":
			e.Location = asString(p, item.Value, col)
		case "start_date":
			e.StartDate = asDate(p, item.Value, col)
		case "end_date":
			e.EndDate = asDate(p, item.Value, col)
		case "summary":
			e.Summary = asString(p, item.Value, col)
		case "highlights":
			e.Highlights = asStringList(p, item.Value, col)
		default:
			col.add(p, item.Value, "unknown field")
		}
	}

	requireField(path, "company", e.Company, col)
	requireField(path, "position", e.Position, col)
	e.StartDate, e.EndDate = validateRange(path, e.StartDate, e.EndDate, col)
	return e
}

func parseEducation(path string, m yaml.MapSlice, col *errorCollector) Entry {
	var e EducationEntry
	for _, item := range m {
		key, _ := item.Key.(string)
		p := childPath(path, key)
		switch key {
		case "institution":
			e.Institution = asString(p, item.Value, col)
		case "area":
			e.Area = asString(p, item.Value, col)
		case "degree":
			e.Degree = asString(p, item.Value, col)
		case "location":
			e.Location = asString(p, item.Value, col)
		case "start_date":
			e.StartDate = asDate(p, item.Value, col)
		case "end_date":
			e.EndDate = asDate(p, item.Value, col)
		case "highlights":
			e.Highlights = asStringList(p, item.Value, col)
		default:
			col.add(p, item.Value, "unknown field")
		}
	}

	requireField(path, "institution", e.Institution, col)
	requireField(path, "area", e.Area, col)
	e.StartDate, e.EndDate = validateRange(path, e.StartDate, e.EndDate, col)
	return e
}

func parsePublication(path string, m yaml.MapSlice, col *errorCollector) Entry {
	var e PublicationEntry
	for _, item := range m {
		key, _ := item.Key.(string)
		p := childPath(path, key)
		switch key {
		case "title":
			e.Title = asString(p, item.Value, col)
		case "authors":
			e.Authors = asStringList(p, item.Value, col)
		case "venue":
			e.Venue = asString(p, item.Value, col)
		case "date":
			e.Date = asDate(p, item.Value, col)
			if e.Date.Present {
				col.add(p, item.Value, "publication date cannot be the present sentinel")
			}
		case "doi":
			e.DOI = asString(p, item.Value, col)
		case "url":
			e.URL = asString(p, item.Value, col)
		default:
			col.add(p, item.Value, "unknown field")
		}
	}

	requireField(path, "title", e.Title, col)
	if len(e.Authors) == 0 {
		col.add(childPath(path, "authors"), nil, "required field is missing or empty")
	}
	if e.URL != "" {
		if err := validate.Var(e.URL, "http_url"); err != nil {
			col.add(childPath(path, "url"), e.URL, "not a well-formed URL")
		}
	}
	return e
}

func parseProject(path string, m yaml.MapSlice, col *errorCollector) Entry {
	var e ProjectEntry
	for _, item := range m {
		key, _ := item.Key.(string)
		p := childPath(path, key)
		switch key {
		case "name":
			e.Name = asString(p, item.Value, col)
		case "date":
			e.Date = asDate(p, item.Value, col)
		case "url":
			e.URL = asString(p, item.Value, col)
		case "summary":
			e.Summary = asString(p, item.Value, col)
		case "highlights":
			e.Highlights = asStringList(p, item.Value, col)
		default:
			col.add(p, item.Value, "unknown field")
		}
	}

	requireField(path, "name", e.Name, col)
	if e.URL != "" {
		if err := validate.Var(e.URL, "http_url"); err != nil {
			col.add(childPath(path, "url"), e.URL, "not a well-formed URL")
		}
	}
	return e
}

func parseSkill(path string, m yaml.MapSlice, col *errorCollector) Entry {
	var e SkillEntry
	for _, item := range m {
		key, _ := item.Key.(string)
		p := childPath(path, key)
		switch key {
		case "label":
			e.Label = asString(p, item.Value, col)
		case "details":
			e.Details = asString(p, item.Value, col)
		default:
			col.add(p, item.Value, "unknown field")
		}
	}

	requireField(path, "label", e.Label, col)
	requireField(path, "details", e.Details, col)
	return e
}

// validateRange enforces start <= end and the end-without-start rule. An
// entry with a start date and no end date is treated as ongoing.
func validateRange(path string, start, end DateValue, col *errorCollector) (DateValue, DateValue) {
	if start.Present {
		col.add(childPath(path, "start_date"), PresentSentinel, "start date cannot be the present sentinel")
		return start, end
	}
	if start.IsZero() {
		if !end.IsZero() {
			col.add(childPath(path, "end_date"), end.String(), "end date requires a start date")
		}
		return start, end
	}
	if end.IsZero() {
		return start, DateValue{Present: true}
	}
	if start.Compare(end) > 0 {
		col.addf(childPath(path, "start_date"), start.String(), "start date is after end date %s", end)
	}
	return start, end
}

// requireField records an error when a required string field is empty.
func requireField(path, field, value string, col *errorCollector) {
	if value == "" {
		col.add(childPath(path, field), nil, "required field is missing")
	}
}

// asString coerces a scalar to a string, reporting type mismatches.
func asString(path string, v any, col *errorCollector) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		col.add(path, nil, "must not be empty")
		return ""
	default:
		col.addf(path, v, "must be a string, got %T", v)
		return ""
	}
}

// asDate coerces a scalar to a DateValue. Bare years may arrive as YAML
// integers, so numeric scalars are accepted.
func asDate(path string, v any, col *errorCollector) DateValue {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case int64, uint64, int:
		s = fmt.Sprint(t)
	default:
		col.addf(path, v, "must be a date string, got %T", v)
		return DateValue{}
	}

	d, err := ParseDate(s)
	if err != nil {
		col.add(path, s, err.Error())
		return DateValue{}
	}
	return d
}

// asStringList coerces a sequence of scalars to []string.
func asStringList(path string, v any, col *errorCollector) []string {
	items, ok := v.([]any)
	if !ok {
		col.add(path, v, "must be a list of strings")
		return nil
	}
	out := make([]string, 0, len(items))
	for i, raw := range items {
		s, ok := raw.(string)
		if !ok {
			col.addf(indexPath(path, i), raw, "must be a string, got %T", raw)
			continue
		}
		out = append(out, s)
	}
	return out
}
