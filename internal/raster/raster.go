// Package raster turns a compiled PDF into one PNG image per page.
package raster

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

var (
	// ErrOpenDocument is returned when the PDF cannot be opened or parsed.
	ErrOpenDocument = errors.New("cannot open document")
	// ErrInvalidDPI is returned for a non-positive resolution.
	ErrInvalidDPI = errors.New("dpi must be positive")
	// ErrNoPages is returned for a document without any pages.
	ErrNoPages = errors.New("document has no pages")
)

// DefaultDPI is the rasterization resolution used when none is given.
const DefaultDPI = 144

// PageError records a single page that failed to rasterize. Other pages
// are still produced.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// PageFile is one written page image.
type PageFile struct {
	// Page is the 1-based page number.
	Page int
	// Path is where the PNG was written.
	Path string
}

// Result lists the written images and any per-page failures.
type Result struct {
	// Images holds the written PNG files in page order. Pages that failed
	// are absent here and present in Failed instead.
	Images []PageFile
	// Failed holds pages that could not be rendered.
	Failed []*PageError
}

// Rasterizer converts PDF pages to PNG files.
type Rasterizer struct {
	dpi float64
}

// NewRasterizer returns a rasterizer at the given resolution.
func NewRasterizer(dpi float64) (*Rasterizer, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDPI, dpi)
	}
	return &Rasterizer{dpi: dpi}, nil
}

// Rasterize writes one PNG per page of pdfPath into outDir. Image names
// derive from the PDF file name: cv.pdf yields cv_page_1.png, cv_page_2.png
// and so on, with 1-based page numbers. A page that fails to render is
// recorded in the result without stopping the remaining pages.
func (r *Rasterizer) Rasterize(pdfPath, outDir string) (*Result, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenDocument, pdfPath, err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPages, pdfPath)
	}

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	result := &Result{}

	for i := 0; i < n; i++ {
		page := i + 1
		path := filepath.Join(outDir, fmt.Sprintf("%s_page_%d.png", stem, page))
		if err := r.writePage(doc, i, path); err != nil {
			result.Failed = append(result.Failed, &PageError{Page: page, Err: err})
			continue
		}
		result.Images = append(result.Images, PageFile{Page: page, Path: path})
	}
	return result, nil
}

func (r *Rasterizer) writePage(doc *fitz.Document, index int, path string) error {
	img, err := doc.ImageDPI(index, r.dpi)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- path is built from our own naming scheme
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("encoding png: %w", err)
	}
	return f.Close()
}
