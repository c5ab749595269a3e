// Package config loads optional CLI configuration files. Flags always win
// over file values; the file only moves defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-cvforge/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Value bounds, enforced on load.
const (
	MinDPI = 36
	MaxDPI = 1200

	MaxTimeout = 30 * time.Minute
)

// Config holds the CLI-level defaults for rendering runs.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Render  RenderConfig  `yaml:"render"`
	Design  DesignConfig  `yaml:"design"`
	Compile CompileConfig `yaml:"compile"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = current directory)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = alongside input)
}

// RenderConfig defines rendering defaults.
type RenderConfig struct {
	Theme   string   `yaml:"theme"`   // Theme name or directory path (empty = classic)
	Formats []string `yaml:"formats"` // Output formats: pdf, png, typ, md, html
	DPI     int      `yaml:"dpi"`     // Raster resolution (0 = package default)
}

// DesignConfig points at a design override file applied on top of the
// theme defaults.
type DesignConfig struct {
	File string `yaml:"file"`
}

// CompileConfig defines typesetting compiler options.
type CompileConfig struct {
	Timeout time.Duration `yaml:"timeout"` // Per-pass deadline (0 = package default)
	Binary  string        `yaml:"binary"`  // Compiler executable (empty = typst on PATH)
}

// knownFormats is the closed set accepted in render.formats.
var knownFormats = map[string]bool{
	"pdf":  true,
	"png":  true,
	"typ":  true,
	"md":   true,
	"html": true,
}

// Validate checks value ranges. Called automatically by LoadConfig, but
// available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if c.Render.DPI != 0 && (c.Render.DPI < MinDPI || c.Render.DPI > MaxDPI) {
		return fmt.Errorf("%w: render.dpi must be between %d and %d, got %d",
			ErrInvalidValue, MinDPI, MaxDPI, c.Render.DPI)
	}
	for i, f := range c.Render.Formats {
		if !knownFormats[strings.ToLower(f)] {
			return fmt.Errorf("%w: render.formats[%d]: unknown format %q", ErrInvalidValue, i, f)
		}
	}
	if c.Compile.Timeout < 0 || c.Compile.Timeout > MaxTimeout {
		return fmt.Errorf("%w: compile.timeout must be between 0 and %s, got %s",
			ErrInvalidValue, MaxTimeout, c.Compile.Timeout)
	}
	return nil
}

// DefaultConfig returns a neutral configuration that defers every choice
// to the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{Formats: []string{"pdf"}},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/cvforge/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "cvforge", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
