package config

import (
	"errors"
	"log/slog"
)

// Option configures a Config.
type Option func(*Config) error

// WithPatterns replaces the package patterns.
func WithPatterns(patterns ...string) Option {
	return func(c *Config) error {
		if len(patterns) == 0 {
			return NewError("patterns", nil, "patterns cannot be empty")
		}

		c.Patterns = patterns

		return nil
	}
}

// WithDir sets the directory patterns are resolved from.
func WithDir(dir string) Option {
	return func(c *Config) error {
		c.Dir = dir
		return nil
	}
}

// WithModelSuffix sets the required model name suffix.
func WithModelSuffix(suffix string) Option {
	return func(c *Config) error {
		if suffix == "" {
			return NewError("model_suffix", nil, "suffix cannot be empty")
		}

		c.ModelSuffix = suffix

		return nil
	}
}

// WithFileSuffix sets the generated file name suffix.
func WithFileSuffix(suffix string) Option {
	return func(c *Config) error {
		c.FileSuffix = suffix
		return nil
	}
}

// WithOutputDir writes generated files to dir.
func WithOutputDir(dir string) Option {
	return func(c *Config) error {
		c.OutputDir = dir
		return nil
	}
}

// WithWorkers limits concurrent file writes.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewError("workers", n, "at least one worker is required")
		}

		c.Workers = n

		return nil
	}
}

// WithBinders enables or disables binder generation.
func WithBinders(enabled bool) Option {
	return func(c *Config) error {
		c.Binders = enabled
		return nil
	}
}

// WithWrap enables or disables wrapped values and adds wrapped types.
func WithWrap(enabled bool, types ...string) Option {
	return func(c *Config) error {
		c.Wrap.Enabled = enabled
		c.Wrap.Types = append(c.Wrap.Types, types...)

		return nil
	}
}

// WithNavigator enables the navigator file in dir with package name pkg.
func WithNavigator(dir, pkg string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewError("navigator.dir", nil, "navigator directory cannot be empty")
		}

		c.Navigator.Enabled = true
		c.Navigator.Dir = dir

		if pkg != "" {
			c.Navigator.Package = pkg
		}

		return nil
	}
}

// WithHeader sets the generated file header.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithDryRun renders files without writing them.
func WithDryRun(dryRun bool) Option {
	return func(c *Config) error {
		c.DryRun = dryRun
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return NewError("logger", nil, "logger cannot be nil")
		}

		c.Logger = logger

		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}

	return nil
}

// ApplyAll applies options and collects all errors.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error

	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// New creates a validated Config from the defaults and the given options.
func New(opts ...Option) (*Config, error) {
	c := Default()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Config {
	c, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return c
}

// SlogLogger returns the configured logger, or one that discards everything.
func (c *Config) SlogLogger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return c.Logger
}
