package cvforge

import (
	"errors"

	"github.com/alnah/go-cvforge/internal/build"
	"github.com/alnah/go-cvforge/internal/raster"
	"github.com/alnah/go-cvforge/internal/render"
	"github.com/alnah/go-cvforge/internal/schema"
	"github.com/alnah/go-cvforge/internal/theme"
)

// Sentinel errors for the public rendering API.
var (
	// ErrEmptyInput indicates a nil or empty CV document.
	ErrEmptyInput = errors.New("CV input cannot be empty")
	// ErrNoFormats indicates a render request with no output formats.
	ErrNoFormats = errors.New("at least one output format is required")
	// ErrUnknownFormat indicates an unrecognized output format name.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrInvalidStem indicates an output stem unusable as a file name.
	ErrInvalidStem = errors.New("output stem must be a bare file name")
	// ErrPoolClosed indicates use of a pool after Close.
	ErrPoolClosed = errors.New("pool is closed")
	// ErrPoolSize indicates a non-positive pool size.
	ErrPoolSize = errors.New("pool size must be positive")
)

// Errors surfaced from the pipeline stages, re-exported so callers branch
// on failures without importing internal packages.
var (
	// ErrValidation wraps all CV input problems; errors.As with a
	// *ValidationErrors target recovers the per-field detail.
	ErrValidation = schema.ErrValidation
	// ErrUnknownTheme indicates a theme name missing from the registry.
	ErrUnknownTheme = theme.ErrUnknownTheme
	// ErrFieldUnsupported indicates a theme referencing fields an entry
	// kind does not declare.
	ErrFieldUnsupported = render.ErrFieldUnsupported
	// ErrCompileFailed indicates the typesetting compiler rejected the
	// generated source.
	ErrCompileFailed = build.ErrCompileFailed
	// ErrCompileTimeout indicates a compile pass overran its deadline.
	ErrCompileTimeout = build.ErrCompileTimeout
	// ErrOpenDocument indicates the compiled PDF could not be read back
	// for rasterization.
	ErrOpenDocument = raster.ErrOpenDocument
)
