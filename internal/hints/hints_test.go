package hints

import (
	"strings"
	"testing"
)

func TestForCompilerMissing(t *testing.T) {
	t.Parallel()

	got := ForCompilerMissing()
	if !strings.HasPrefix(got, "\n  hint: ") {
		t.Errorf("hint not consistently formatted: %q", got)
	}
	if !strings.Contains(got, "typst") {
		t.Errorf("hint should name the compiler: %q", got)
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		wantPath bool
	}{
		{
			name:     "suggests user config path when searched",
			paths:    []string{"render.yaml", "/home/u/.config/cvforge/render.yaml"},
			wantPath: true,
		},
		{
			name:     "no user path among candidates",
			paths:    []string{"render.yaml", "render.yml"},
			wantPath: false,
		},
		{
			name:     "empty search list",
			paths:    nil,
			wantPath: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ForConfigNotFound(tt.paths)
			if !strings.Contains(got, "--config") {
				t.Errorf("hint should mention --config: %q", got)
			}
			if tt.wantPath != strings.Contains(got, ".config/cvforge") {
				t.Errorf("user path suggestion mismatch: %q", got)
			}
		})
	}
}

func TestForThemeNotFound(t *testing.T) {
	t.Parallel()

	if got := ForThemeNotFound(nil); got != "" {
		t.Errorf("ForThemeNotFound(nil) = %q, want empty", got)
	}

	got := ForThemeNotFound([]string{"classic", "engineering"})
	if !strings.Contains(got, "classic, engineering") {
		t.Errorf("hint should list available themes: %q", got)
	}
}

func TestHintFormatting(t *testing.T) {
	t.Parallel()

	for name, got := range map[string]string{
		"ForTimeout":         ForTimeout(),
		"ForValidation":      ForValidation(),
		"ForOutputDirectory": ForOutputDirectory(),
	} {
		if !strings.HasPrefix(got, "\n  hint: ") {
			t.Errorf("%s not consistently formatted: %q", name, got)
		}
	}
}
