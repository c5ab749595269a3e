// Package cvforge renders structured CV documents into typeset PDFs, page
// images, and lightweight-markup renditions.
//
// The pipeline takes a YAML description of a CV, validates it into a typed
// model, resolves a theme's design options against user overrides, expands
// the theme's templates into typesetting source, drives the external typst
// compiler to a stable document, and optionally rasterizes each page to PNG.
//
// Basic usage:
//
//	svc, err := cvforge.NewService(cvforge.WithTheme("classic"))
//	if err != nil { ... }
//	res, err := svc.Render(ctx, cvforge.Input{CV: data, Stem: "cv"})
//
// For concurrent batch rendering, use Pool, which lazily grows a set of
// Service workers up to a fixed size.
package cvforge
