// Package schema parses raw structured CV input into a typed, invariant-checked
// model. Validation aggregates every error it finds in one pass instead of
// stopping at the first, and locates each with a dotted/bracketed field path.
package schema

// SocialLink is a presence on a well-known network.
type SocialLink struct {
	Network  string
	Username string
	URL      string
}

// Section is one titled, ordered group of entries. All entries share one
// EntryKind, fixed by the first entry.
type Section struct {
	Title   string
	Kind    EntryKind
	Entries []Entry
}

// CVModel is the root entity: identity and contact fields plus the ordered
// sections. Constructed once per render by Parse and immutable thereafter.
type CVModel struct {
	Name     string
	Label    string
	Location string
	Email    string
	Phone    string
	Website  string
	Social   []SocialLink
	Sections []Section
}

// SectionTitles returns the section titles in input order.
func (m *CVModel) SectionTitles() []string {
	titles := make([]string, len(m.Sections))
	for i, s := range m.Sections {
		titles[i] = s.Title
	}
	return titles
}

// SectionByTitle returns the section with the given title, or nil.
func (m *CVModel) SectionByTitle(title string) *Section {
	for i := range m.Sections {
		if m.Sections[i].Title == title {
			return &m.Sections[i]
		}
	}
	return nil
}
