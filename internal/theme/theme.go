// Package theme provides named template bundles: one set of typesetting
// template fragments plus a declared design-option default set per theme.
// Themes are loaded once, treated as read-only, and shared across renders.
package theme

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for theme loading.
var (
	ErrUnknownTheme     = errors.New("unknown theme")
	ErrIncompleteTheme  = errors.New("theme missing required fragment")
	ErrInvalidThemeName = errors.New("invalid theme name")
	ErrDuplicateTheme   = errors.New("theme already registered")
)

// Fragment slot names. Every theme must provide all of them: the outer
// preamble/postamble pair, the per-section wrapper, and one fragment per
// entry kind.
const (
	SlotPreamble  = "preamble"
	SlotPostamble = "postamble"
	SlotSection   = "section"
)

// EntrySlots are the per-entry-kind fragment slots.
var EntrySlots = []string{
	"experience",
	"education",
	"publication",
	"project",
	"skill",
	"bullet",
}

// RequiredSlots returns every fragment slot a complete theme must fill.
func RequiredSlots() []string {
	slots := []string{SlotPreamble, SlotSection, SlotPostamble}
	return append(slots, EntrySlots...)
}

// Theme is one named template bundle. Fragments maps slot name to template
// source; Defaults holds the theme's design defaults YAML.
type Theme struct {
	Name      string
	Defaults  []byte
	Fragments map[string]string
}

// Validate checks the bundle exposes every required fragment slot.
func (t *Theme) Validate() error {
	for _, slot := range RequiredSlots() {
		if _, ok := t.Fragments[slot]; !ok {
			return fmt.Errorf("%w: theme %q has no %q fragment", ErrIncompleteTheme, t.Name, slot)
		}
	}
	return nil
}

// Registry holds the known themes. Construct once at process start and pass
// by reference; there is no ambient global lookup.
type Registry struct {
	themes map[string]*Theme
}

// NewRegistry returns a registry preloaded with the embedded built-in themes.
func NewRegistry() (*Registry, error) {
	r := &Registry{themes: make(map[string]*Theme)}
	for _, name := range builtinThemeNames() {
		t, err := loadEmbeddedTheme(name)
		if err != nil {
			return nil, fmt.Errorf("loading built-in theme %q: %w", name, err)
		}
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a theme. The theme must be complete and its name unused.
func (r *Registry) Register(t *Theme) error {
	if t.Name == "" {
		return ErrInvalidThemeName
	}
	if _, exists := r.themes[t.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTheme, t.Name)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	r.themes[t.Name] = t
	return nil
}

// Get returns the named theme or ErrUnknownTheme. An unknown theme halts the
// pipeline; there is no best-guess fallback.
func (r *Registry) Get(name string) (*Theme, error) {
	t, ok := r.themes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownTheme, name, r.Names())
	}
	return t, nil
}

// Names lists the registered theme names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
