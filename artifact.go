package cvforge

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-cvforge/internal/yamlutil"
)

// ErrArtifactNotFound indicates a missing artifact manifest.
var ErrArtifactNotFound = errors.New("artifact manifest not found")

// artifactSuffix names the manifest next to the other outputs.
const artifactSuffix = ".artifact.yaml"

// Artifact is the manifest written alongside a render's outputs. It records
// what was produced and from which input, so a later run can tell whether
// outputs are stale.
type Artifact struct {
	Stem         string    `yaml:"stem"`
	Theme        string    `yaml:"theme"`
	GeneratedAt  time.Time `yaml:"generatedAt"`
	SourceDigest string    `yaml:"sourceDigest"`
	Formats      []string  `yaml:"formats"`
	Pages        int       `yaml:"pages"`
	Passes       int       `yaml:"passes"`
	Converged    bool      `yaml:"converged"`
	Outputs      []string  `yaml:"outputs"`
	// Design is the fully resolved design the render used, as YAML.
	// Feeding it back as a design override reproduces the render.
	Design string `yaml:"design"`
}

// NewArtifact assembles the manifest for one finished render. outputs lists
// the file names written, relative to the output directory.
func NewArtifact(in Input, formats []Format, res *Result, outputs []string) *Artifact {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	sum := sha256.Sum256(in.CV)
	return &Artifact{
		Stem:         res.Stem,
		Theme:        res.Theme,
		GeneratedAt:  time.Now().UTC(),
		SourceDigest: hex.EncodeToString(sum[:]),
		Formats:      names,
		Pages:        res.Pages,
		Passes:       res.Passes,
		Converged:    res.Converged,
		Outputs:      outputs,
		Design:       res.ResolvedDesign,
	}
}

// Matches reports whether the manifest was produced from the given input
// document.
func (a *Artifact) Matches(cv []byte) bool {
	sum := sha256.Sum256(cv)
	return a.SourceDigest == hex.EncodeToString(sum[:])
}

// Save writes the manifest as <stem>.artifact.yaml under dir.
func (a *Artifact) Save(dir string) (string, error) {
	data, err := yamlutil.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encoding artifact manifest: %w", err)
	}
	path := filepath.Join(dir, a.Stem+artifactSuffix)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing artifact manifest: %w", err)
	}
	return path, nil
}

// LoadArtifact reads a manifest written by Save.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- manifest path is caller-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("reading artifact manifest: %w", err)
	}
	var a Artifact
	if err := yamlutil.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing artifact manifest: %w", err)
	}
	return &a, nil
}
