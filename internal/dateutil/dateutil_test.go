package dateutil

// Notes:
// - ParseDateFormat: token expansion, presets, bracket escapes, error cases
// - HasDayToken/HasMonthToken: token detection including bracketed literals

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	ref := time.Date(2021, time.March, 7, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"default format", DefaultDateFormat, "March 2021"},
		{"iso preset", "iso", "2021-03-07"},
		{"compact preset", "compact", "03/2021"},
		{"abbreviated month", "MMM YYYY", "Mar 2021"},
		{"single digit tokens", "M/D/YY", "3/7/21"},
		{"bracket escape", "[Updated] YYYY", "Updated 2021"},
		{"literal passthrough", "YYYY年M月", "2021年3月"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			goFmt, err := ParseDateFormat(tt.format)
			if err != nil {
				t.Fatalf("ParseDateFormat(%q): %v", tt.format, err)
			}
			if got := ref.Format(goFmt); got != tt.want {
				t.Errorf("format %q: got %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestParseDateFormat_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
	}{
		{"empty", ""},
		{"too long", strings.Repeat("Y", MaxDateFormatLength+1)},
		{"unclosed bracket", "[Date YYYY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseDateFormat(tt.format); !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("got %v, want ErrInvalidDateFormat", err)
			}
		})
	}
}

func TestTokenDetection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format    string
		wantDay   bool
		wantMonth bool
	}{
		{"MMMM YYYY", false, true},
		{"YYYY-MM-DD", true, true},
		{"YYYY", false, false},
		{"[DD] YYYY", false, false}, // bracketed literal is not a token
		{"D MMM YYYY", true, true},
	}

	for _, tt := range tests {
		if got := HasDayToken(tt.format); got != tt.wantDay {
			t.Errorf("HasDayToken(%q) = %v, want %v", tt.format, got, tt.wantDay)
		}
		if got := HasMonthToken(tt.format); got != tt.wantMonth {
			t.Errorf("HasMonthToken(%q) = %v, want %v", tt.format, got, tt.wantMonth)
		}
	}
}
