// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForCompilerMissing returns hints for a missing typesetting compiler.
func ForCompilerMissing() string {
	return format("install typst and make sure it is on PATH, or set --typst-bin")
}

// ForTimeout returns a hint about increasing timeout for slow compiles.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/cvforge/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/cvforge") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForThemeNotFound returns hints for theme not found errors.
func ForThemeNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForValidation returns a hint pointing at the schema check command.
func ForValidation() string {
	return format("run `cvforge check` for the full list of problems, or `cvforge schema` for the input format")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
