package schema

// EntryKind is the closed set of structural shapes an entry may take. The
// first entry of a section fixes the kind for the whole section.
type EntryKind string

const (
	KindExperience  EntryKind = "experience"
	KindEducation   EntryKind = "education"
	KindPublication EntryKind = "publication"
	KindProject     EntryKind = "project"
	KindSkill       EntryKind = "skill"
	KindBullet      EntryKind = "bullet"
)

// Entry is one item within a CV section. Implementations are the closed set
// of concrete entry structs below; templates receive the concrete type so a
// reference to a field the kind does not declare fails template execution
// instead of silently rendering nothing.
type Entry interface {
	Kind() EntryKind
}

// DateRanged is implemented by entry kinds that carry a start/end range.
type DateRanged interface {
	Range() (start, end DateValue)
}

// ExperienceEntry is a job or engagement.
type ExperienceEntry struct {
	Company    string
	Position   string
	Location   string
	StartDate  DateValue
	EndDate    DateValue
	Summary    string
	Highlights []string
}

func (ExperienceEntry) Kind() EntryKind { return KindExperience }

func (e ExperienceEntry) Range() (DateValue, DateValue) { return e.StartDate, e.EndDate }

// EducationEntry is a degree or study period.
type EducationEntry struct {
	Institution string
	Area        string
	Degree      string
	Location    string
	StartDate   DateValue
	EndDate     DateValue
	Highlights  []string
}

func (EducationEntry) Kind() EntryKind { return KindEducation }

func (e EducationEntry) Range() (DateValue, DateValue) { return e.StartDate, e.EndDate }

// PublicationEntry is a paper or article.
type PublicationEntry struct {
	Title   string
	Authors []string
	Venue   string
	Date    DateValue
	DOI     string
	URL     string
}

func (PublicationEntry) Kind() EntryKind { return KindPublication }

// ProjectEntry is a named piece of work outside formal employment.
type ProjectEntry struct {
	Name       string
	Date       DateValue
	URL        string
	Summary    string
	Highlights []string
}

func (ProjectEntry) Kind() EntryKind { return KindProject }

// SkillEntry is a one-line label/details pair.
type SkillEntry struct {
	Label   string
	Details string
}

func (SkillEntry) Kind() EntryKind { return KindSkill }

// BulletEntry is a plain highlight written as a bare string in the input.
type BulletEntry struct {
	Text string
}

func (BulletEntry) Kind() EntryKind { return KindBullet }

// Compile-time checks that the tagged-variant set is complete.
var (
	_ Entry      = ExperienceEntry{}
	_ Entry      = EducationEntry{}
	_ Entry      = PublicationEntry{}
	_ Entry      = ProjectEntry{}
	_ Entry      = SkillEntry{}
	_ Entry      = BulletEntry{}
	_ DateRanged = ExperienceEntry{}
	_ DateRanged = EducationEntry{}
)
