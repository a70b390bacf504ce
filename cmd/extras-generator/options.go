package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"extras-generator/internal/config"
)

// logger returns a text logger on the command's error stream.
func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo

	switch {
	case o.verbose:
		level = slog.LevelDebug
	case o.quiet:
		level = slog.LevelWarn
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// colored reports whether output to w is colorized.
func (o *rootOptions) colored(w io.Writer) bool {
	return useColor(o.color, w)
}

func useColor(mode string, w io.Writer) bool {
	switch strings.ToLower(mode) {
	case "on", "always":
		return true
	case "off", "never":
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	f, ok := w.(*os.File)

	return ok && isTerminal(f)
}

// loadConfig builds the configuration of one command. The --config file, or
// the nearest config file, is read first; patterns given on the command line
// replace the configured ones and are resolved from the working directory.
func (o *rootOptions) loadConfig(cmd *cobra.Command, patterns []string, extra ...config.Option) (*config.Config, error) {
	logger := o.logger(cmd)

	cfg, err := o.readConfig(logger)
	if err != nil {
		return nil, err
	}

	opts := []config.Option{config.WithLogger(logger)}
	if len(patterns) > 0 {
		opts = append(opts, config.WithPatterns(patterns...), config.WithDir(""))
	}

	opts = append(opts, extra...)

	if err := cfg.ApplyAll(opts...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (o *rootOptions) readConfig(logger *slog.Logger) (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}

	path, found, err := config.Find(".")
	if err != nil {
		return nil, err
	}

	if !found {
		logger.Debug("no config file found, using defaults")
		return config.Default(), nil
	}

	logger.Debug("using config file", "path", path)

	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}

	return fmt.Errorf("unsupported format %q (must be %s)", format, strings.Join(allowed, " or "))
}
