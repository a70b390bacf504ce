package config

import (
	"go/token"
	"log/slog"
	"runtime"
	"strings"
)

// Defaults.
const (
	DefaultModelSuffix      = "Model"
	DefaultFileSuffix       = "_gen.go"
	DefaultNavigatorPackage = "navigator"
	DefaultHeader           = "Code generated by extras-generator. DO NOT EDIT."
)

// Config configures one generation run.
type Config struct {
	// Patterns are the Go package patterns scanned for models.
	Patterns []string `yaml:"patterns" toml:"patterns"`
	// Dir is the directory patterns are resolved from.
	Dir string `yaml:"dir,omitempty" toml:"dir,omitempty"`
	// ModelSuffix is the suffix every model type name ends with.
	ModelSuffix string `yaml:"model_suffix" toml:"model_suffix"`
	// FileSuffix ends every generated file name.
	FileSuffix string `yaml:"file_suffix" toml:"file_suffix"`
	// OutputDir, when set, receives the generated files instead of the
	// model package directories.
	OutputDir string `yaml:"output_dir,omitempty" toml:"output_dir,omitempty"`
	// Workers limits concurrent file writes.
	Workers int `yaml:"workers" toml:"workers"`
	// Binders enables binder generation.
	Binders bool `yaml:"binders" toml:"binders"`
	// Wrap configures wrapped value types.
	Wrap WrapConfig `yaml:"wrap" toml:"wrap"`
	// Navigator configures the navigator file.
	Navigator NavigatorConfig `yaml:"navigator" toml:"navigator"`
	// Header is the comment written at the top of generated files.
	Header string `yaml:"header" toml:"header"`

	// DryRun renders files without writing them.
	DryRun bool `yaml:"-" toml:"-"`
	// Logger receives progress messages. Nil discards them.
	Logger *slog.Logger `yaml:"-" toml:"-"`
}

// WrapConfig configures wrapped value types.
type WrapConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	// Types lists struct types wrapped in addition to parcel-marked ones,
	// as "import/path.Name".
	Types []string `yaml:"types,omitempty" toml:"types,omitempty"`
}

// NavigatorConfig configures the navigator file.
type NavigatorConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	// Dir is the directory the navigator file is written to.
	Dir string `yaml:"dir,omitempty" toml:"dir,omitempty"`
	// Package is the package name of the navigator file.
	Package string `yaml:"package" toml:"package"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Patterns:    []string{"./..."},
		ModelSuffix: DefaultModelSuffix,
		FileSuffix:  DefaultFileSuffix,
		Workers:     runtime.NumCPU(),
		Binders:     true,
		Wrap:        WrapConfig{Enabled: true},
		Navigator:   NavigatorConfig{Package: DefaultNavigatorPackage},
		Header:      DefaultHeader,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if len(c.Patterns) == 0 {
		return NewError("patterns", nil, "at least one package pattern is required")
	}

	if c.ModelSuffix == "" || !token.IsIdentifier(c.ModelSuffix) {
		return NewError("model_suffix", c.ModelSuffix, "suffix must be a Go identifier")
	}

	if !strings.HasSuffix(c.FileSuffix, ".go") || strings.HasSuffix(c.FileSuffix, "_test.go") {
		return NewError("file_suffix", c.FileSuffix, "suffix must end in .go and not name a test file")
	}

	if c.Workers < 1 {
		return NewError("workers", c.Workers, "at least one worker is required")
	}

	for _, t := range c.Wrap.Types {
		i := strings.LastIndex(t, ".")
		if i <= 0 || !token.IsIdentifier(t[i+1:]) {
			return NewError("wrap.types", t, "expected import/path.Name")
		}
	}

	if c.Navigator.Enabled {
		if c.Navigator.Dir == "" {
			return NewError("navigator.dir", nil, "navigator directory cannot be empty")
		}

		if !token.IsIdentifier(c.Navigator.Package) {
			return NewError("navigator.package", c.Navigator.Package, "package must be a Go identifier")
		}
	}

	return nil
}
