package build

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ConvergencePolicy selects which signals must stabilize between passes.
// Page-count stability is always required; the content digest is stricter
// and catches cross-reference shuffles that keep the page count unchanged.
type ConvergencePolicy struct {
	RequireDigest bool
}

// DefaultPolicy requires both signals.
var DefaultPolicy = ConvergencePolicy{RequireDigest: true}

// Signals are the per-pass measurements compared to decide convergence.
type Signals struct {
	Pages  int
	Digest string
}

// Equal reports whether two passes agree under the policy.
func (s Signals) Equal(other Signals, p ConvergencePolicy) bool {
	if s.Pages != other.Pages {
		return false
	}
	if p.RequireDigest && s.Digest != other.Digest {
		return false
	}
	return true
}

// measurePDF reads the convergence signals from a compiled document. The
// digest is stable across passes because the compiler runs with a pinned
// SOURCE_DATE_EPOCH.
func measurePDF(path string) (Signals, error) {
	pages, err := api.PageCountFile(path)
	if err != nil {
		return Signals{}, fmt.Errorf("counting pages of %s: %w", path, err)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is inside our workspace
	if err != nil {
		return Signals{}, fmt.Errorf("reading compiled document: %w", err)
	}
	sum := sha256.Sum256(data)

	return Signals{Pages: pages, Digest: hex.EncodeToString(sum[:])}, nil
}
