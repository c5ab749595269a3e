package schema

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// PresentSentinel is the input spelling of an open-ended date.
const PresentSentinel = "present"

// ErrInvalidDate indicates a date string that matches none of the accepted
// granularities.
var ErrInvalidDate = errors.New("invalid date")

// Granularity describes how much of a DateValue was supplied.
type Granularity int

const (
	GranularityYear Granularity = iota
	GranularityMonth
	GranularityDay
)

var datePattern = regexp.MustCompile(`^(\d{4})(?:-(\d{2})(?:-(\d{2}))?)?$`)

// DateValue is a date of variable granularity: a bare year, a year-month, or
// a full date. Present is a distinguished sentinel greater than any concrete
// date. The zero DateValue means "not supplied".
type DateValue struct {
	Year    int
	Month   time.Month // 0 when granularity is year
	Day     int        // 0 unless granularity is day
	Present bool
}

// ParseDate coerces a raw string into a DateValue. Accepted forms are
// "YYYY", "YYYY-MM", "YYYY-MM-DD", and the "present" sentinel.
func ParseDate(s string) (DateValue, error) {
	if s == PresentSentinel {
		return DateValue{Present: true}, nil
	}

	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return DateValue{}, fmt.Errorf("%w: %q (want YYYY, YYYY-MM, YYYY-MM-DD, or %q)", ErrInvalidDate, s, PresentSentinel)
	}

	var d DateValue
	fmt.Sscanf(m[1], "%d", &d.Year)

	if m[2] != "" {
		var month int
		fmt.Sscanf(m[2], "%d", &month)
		if month < 1 || month > 12 {
			return DateValue{}, fmt.Errorf("%w: month %d out of range in %q", ErrInvalidDate, month, s)
		}
		d.Month = time.Month(month)
	}

	if m[3] != "" {
		var day int
		fmt.Sscanf(m[3], "%d", &day)
		// Validate against the real calendar, not just 1..31.
		t := time.Date(d.Year, d.Month, day, 0, 0, 0, 0, time.UTC)
		if t.Day() != day || t.Month() != d.Month {
			return DateValue{}, fmt.Errorf("%w: day %d out of range in %q", ErrInvalidDate, day, s)
		}
		d.Day = day
	}

	return d, nil
}

// IsZero reports whether the date was not supplied at all.
func (d DateValue) IsZero() bool {
	return !d.Present && d.Year == 0
}

// Granularity returns how much of the date was supplied. Meaningless for the
// present sentinel.
func (d DateValue) Granularity() Granularity {
	switch {
	case d.Day != 0:
		return GranularityDay
	case d.Month != 0:
		return GranularityMonth
	default:
		return GranularityYear
	}
}

// Compare orders two dates at the coarsest granularity both supply, so
// 2020 == 2020-06 but 2020-05 < 2020-06. Present compares greater than any
// concrete date and equal to itself. Returns -1, 0, or 1.
func (d DateValue) Compare(other DateValue) int {
	switch {
	case d.Present && other.Present:
		return 0
	case d.Present:
		return 1
	case other.Present:
		return -1
	}

	if c := cmpInt(d.Year, other.Year); c != 0 {
		return c
	}
	if d.Month == 0 || other.Month == 0 {
		return 0
	}
	if c := cmpInt(int(d.Month), int(other.Month)); c != 0 {
		return c
	}
	if d.Day == 0 || other.Day == 0 {
		return 0
	}
	return cmpInt(d.Day, other.Day)
}

// Time returns the date pinned to the first of any unsupplied component, for
// formatting. Must not be called on the present sentinel or a zero value.
func (d DateValue) Time() time.Time {
	month := d.Month
	if month == 0 {
		month = time.January
	}
	day := d.Day
	if day == 0 {
		day = 1
	}
	return time.Date(d.Year, month, day, 0, 0, 0, 0, time.UTC)
}

// String renders the date back to its input spelling.
func (d DateValue) String() string {
	switch {
	case d.Present:
		return PresentSentinel
	case d.Day != 0:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	case d.Month != 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d", d.Year)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
