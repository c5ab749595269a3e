package design

import (
	"fmt"

	"dario.cat/mergo"

	"github.com/alnah/go-cvforge/internal/yamlutil"
)

// Resolve merges a theme's default design with a user override document.
// defaults is the theme's embedded defaults YAML; override may be nil or
// empty for "no overrides". The merge is recursive: object-valued options
// merge key by key, scalar options are replaced wholesale when overridden.
// An unknown option path in the override fails with ErrUnknownOption.
func Resolve(themeName string, defaults, override []byte) (*Design, error) {
	if len(defaults) == 0 {
		return nil, fmt.Errorf("%w: theme %q", ErrNoDefaults, themeName)
	}

	doc := defaults
	if len(override) > 0 {
		var user Design
		// Strict parse rejects unknown option paths, catching typos before
		// they silently fall back to theme defaults.
		if err := yamlutil.UnmarshalStrict(override, &user); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownOption, err)
		}
		if user.Theme != "" && user.Theme != themeName {
			return nil, fmt.Errorf("%w: override names theme %q but %q was selected", ErrInvalidOption, user.Theme, themeName)
		}

		merged, err := mergeDocuments(themeName, defaults, override)
		if err != nil {
			return nil, err
		}
		doc = merged
	}

	resolved := &Design{}
	if err := yamlutil.UnmarshalStrict(doc, resolved); err != nil {
		return nil, fmt.Errorf("%w: theme %q: %v", ErrInvalidPreset, themeName, err)
	}
	resolved.Theme = themeName

	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// mergeDocuments merges the override document into the defaults document as
// raw YAML trees. Mappings merge key by key; any other value present in the
// override replaces the default, including falsy scalars such as false or
// the empty string.
func mergeDocuments(themeName string, defaults, override []byte) ([]byte, error) {
	base := map[string]any{}
	if err := yamlutil.Unmarshal(defaults, &base); err != nil {
		return nil, fmt.Errorf("%w: theme %q: %v", ErrInvalidPreset, themeName, err)
	}
	user := map[string]any{}
	if err := yamlutil.Unmarshal(override, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownOption, err)
	}

	if err := mergo.Merge(&base, user, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merging design overrides: %w", err)
	}
	return yamlutil.Marshal(base)
}
