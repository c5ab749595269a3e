package cvforge

import (
	"fmt"
	"strings"

	"github.com/alnah/go-cvforge/internal/schema"
)

// FieldError is one input problem at a dotted field path.
type FieldError = schema.FieldError

// ValidationErrors aggregates every input problem found in one pass.
type ValidationErrors = schema.ErrorList

// Format selects one output artifact kind.
type Format string

const (
	// FormatPDF is the typeset document.
	FormatPDF Format = "pdf"
	// FormatPNG is one raster image per page.
	FormatPNG Format = "png"
	// FormatTypst is the intermediate typesetting source.
	FormatTypst Format = "typ"
	// FormatMarkdown is the lightweight-markup rendition.
	FormatMarkdown Format = "md"
	// FormatHTML is the Markdown rendition wrapped as a standalone page.
	FormatHTML Format = "html"
)

// allFormats lists every supported format in output order.
var allFormats = []Format{FormatPDF, FormatPNG, FormatTypst, FormatMarkdown, FormatHTML}

// ParseFormat converts a format name to a Format, case-insensitively.
func ParseFormat(s string) (Format, error) {
	name := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range allFormats {
		if name == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnknownFormat, s, formatNames())
}

func formatNames() string {
	names := make([]string, len(allFormats))
	for i, f := range allFormats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Input is one render request.
type Input struct {
	// CV is the raw YAML document.
	CV []byte
	// DesignOverride is an optional YAML document layered over the theme's
	// design defaults. Nil means theme defaults as-is.
	DesignOverride []byte
	// Stem names the output files: <stem>.pdf, <stem>_page_1.png and so on.
	// Empty defaults to "cv".
	Stem string
}

// PageImage is one rasterized page.
type PageImage struct {
	// Page is the 1-based page number.
	Page int
	// PNG holds the encoded image.
	PNG []byte
}

// Result carries every artifact one render produced. Only fields matching
// the requested formats are populated.
type Result struct {
	// Stem is the resolved output file stem.
	Stem string
	// PDF holds the typeset document.
	PDF []byte
	// Images holds the rasterized pages in page order.
	Images []PageImage
	// Typst holds the generated typesetting source.
	Typst string
	// Markdown holds the lightweight-markup rendition.
	Markdown string
	// HTML holds the standalone HTML page.
	HTML string

	// Pages is the final page count of the compiled document.
	Pages int
	// Passes is how many compiler invocations ran.
	Passes int
	// Converged reports whether the document stabilized within the pass
	// limit. False means the layout may still shift on a further pass.
	Converged bool
	// PageFailures lists pages that could not be rasterized. Successful
	// pages are still present in Images.
	PageFailures []string
	// Theme is the theme name the document was rendered with.
	Theme string
	// ResolvedDesign is the fully resolved design as YAML, after theme
	// defaults and user overrides were merged. Feeding it back as a design
	// override reproduces the same render.
	ResolvedDesign string
}

// wantsCompile reports whether any requested format needs the typesetting
// compiler to run.
func wantsCompile(formats []Format) bool {
	for _, f := range formats {
		if f == FormatPDF || f == FormatPNG {
			return true
		}
	}
	return false
}

// wantsMarkdown reports whether the Markdown rendition must be produced.
func wantsMarkdown(formats []Format) bool {
	for _, f := range formats {
		if f == FormatMarkdown || f == FormatHTML {
			return true
		}
	}
	return false
}

func hasFormat(formats []Format, f Format) bool {
	for _, v := range formats {
		if v == f {
			return true
		}
	}
	return false
}
