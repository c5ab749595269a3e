package theme

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadDir reads a user-supplied theme from a filesystem directory laid out
// like the built-in ones: defaults.yaml plus <slot>.typ.tmpl per fragment.
// The directory's base name becomes the theme name.
func LoadDir(path string) (*Theme, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %q is not a directory", ErrInvalidThemeName, path)
	}

	name := filepath.Base(filepath.Clean(path))
	if !validThemeName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidThemeName, name)
	}

	defaults, err := os.ReadFile(filepath.Join(path, defaultsFile)) // #nosec G304 -- theme path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: theme %q has no %s", ErrIncompleteTheme, name, defaultsFile)
	}

	t := &Theme{Name: name, Defaults: defaults, Fragments: make(map[string]string)}
	for _, slot := range RequiredSlots() {
		content, err := os.ReadFile(filepath.Join(path, slot+".typ.tmpl")) // #nosec G304 -- theme path is user-provided
		if err != nil {
			return nil, fmt.Errorf("%w: theme %q has no %q fragment", ErrIncompleteTheme, name, slot)
		}
		t.Fragments[slot] = string(content)
	}
	return t, nil
}
