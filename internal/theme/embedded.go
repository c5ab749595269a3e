package theme

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed themes/*
var builtin embed.FS

//go:embed markdown/*
var markdown embed.FS

// defaultsFile is the design defaults file every theme directory carries.
const defaultsFile = "defaults.yaml"

// builtinThemeNames lists the themes shipped in the binary.
func builtinThemeNames() []string {
	entries, err := builtin.ReadDir("themes")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(fmt.Sprintf("theme: embedded themes unreadable: %v", err))
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

// loadEmbeddedTheme reads one built-in theme directory.
func loadEmbeddedTheme(name string) (*Theme, error) {
	dir := "themes/" + name

	defaults, err := builtin.ReadFile(dir + "/" + defaultsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: theme %q has no %s", ErrIncompleteTheme, name, defaultsFile)
	}

	t := &Theme{Name: name, Defaults: defaults, Fragments: make(map[string]string)}
	for _, slot := range RequiredSlots() {
		content, err := builtin.ReadFile(dir + "/" + slot + ".typ.tmpl")
		if err != nil {
			return nil, fmt.Errorf("%w: theme %q has no %q fragment", ErrIncompleteTheme, name, slot)
		}
		t.Fragments[slot] = string(content)
	}
	return t, nil
}

// MarkdownFragments returns the fragment set for the lightweight-markup
// rendition. The Markdown rendition is theme-independent, so one embedded
// set serves every theme.
func MarkdownFragments() (map[string]string, error) {
	fragments := make(map[string]string, len(RequiredSlots()))
	for _, slot := range RequiredSlots() {
		content, err := markdown.ReadFile("markdown/" + slot + ".md.tmpl")
		if err != nil {
			return nil, fmt.Errorf("%w: markdown rendition has no %q fragment", ErrIncompleteTheme, slot)
		}
		fragments[slot] = string(content)
	}
	return fragments, nil
}

// validThemeName rejects names with path separators or traversal so a theme
// name can never escape its directory.
func validThemeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
