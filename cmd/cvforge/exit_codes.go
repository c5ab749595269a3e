package main

import (
	"errors"

	cvforge "github.com/alnah/go-cvforge"
)

// Exit codes, stable for scripting.
const (
	exitOK         = 0
	exitError      = 1
	exitUsage      = 2
	exitValidation = 3
	exitCompile    = 4
)

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, cvforge.ErrValidation):
		return exitValidation
	case errors.Is(err, cvforge.ErrCompileFailed),
		errors.Is(err, cvforge.ErrCompileTimeout):
		return exitCompile
	default:
		return exitError
	}
}
