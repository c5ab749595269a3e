package cvforge

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"pdf", FormatPDF, false},
		{"PNG", FormatPNG, false},
		{" typ ", FormatTypst, false},
		{"md", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{"docx", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v, want %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestFormatSelectors(t *testing.T) {
	t.Parallel()

	if !wantsCompile([]Format{FormatPNG}) {
		t.Error("png needs a compile")
	}
	if wantsCompile([]Format{FormatTypst, FormatMarkdown}) {
		t.Error("template formats should not trigger a compile")
	}
	if !wantsMarkdown([]Format{FormatHTML}) {
		t.Error("html needs the markdown rendition")
	}
	if wantsMarkdown([]Format{FormatPDF}) {
		t.Error("pdf alone should not build the markdown rendition")
	}
}
