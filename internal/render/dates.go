package render

import (
	"github.com/alnah/go-cvforge/internal/dateutil"
	"github.com/alnah/go-cvforge/internal/design"
	"github.com/alnah/go-cvforge/internal/schema"
)

// rangeSeparator joins the two ends of a date range.
const rangeSeparator = " – "

// FormatDate renders one DateValue per the design's date options, honoring
// the granularity the input supplied: a bare year never grows a month, and a
// year-month date never invents a day.
func FormatDate(d schema.DateValue, opts design.DateOptions) string {
	if d.Present {
		if opts.PresentLabel != "" {
			return opts.PresentLabel
		}
		return schema.PresentSentinel
	}
	if d.IsZero() {
		return ""
	}

	format := opts.Format
	if format == "" {
		format = dateutil.DefaultDateFormat
	}

	switch d.Granularity() {
	case schema.GranularityYear:
		format = "YYYY"
	case schema.GranularityMonth:
		if dateutil.HasDayToken(format) {
			format = dateutil.DefaultDateFormat
		}
	}

	goFmt, err := dateutil.ParseDateFormat(format)
	if err != nil {
		// Resolve validated the format already; a failure here is a bug,
		// fall back to the input spelling rather than dropping the date.
		return d.String()
	}
	return d.Time().Format(goFmt)
}

// FormatRange renders a start/end pair. An open range ends with the present
// label; an absent range renders empty.
func FormatRange(start, end schema.DateValue, opts design.DateOptions) string {
	if start.IsZero() && end.IsZero() {
		return ""
	}
	if start.IsZero() {
		return FormatDate(end, opts)
	}
	return FormatDate(start, opts) + rangeSeparator + FormatDate(end, opts)
}
