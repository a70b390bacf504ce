package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"extras-generator/internal/config"
)

func newInitCmd() *cobra.Command {
	var (
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default config file",
		Long: `Init writes extras.yaml (or extras.toml with --format toml) holding the
default configuration into dir, or the current directory. It refuses to
overwrite an existing config file unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if err := checkFormat(format, string(config.FormatYAML), string(config.FormatTOML)); err != nil {
				return err
			}

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			if st, err := os.Stat(dir); err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					return err
				}

				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create directory %q: %w", dir, err)
				}
			} else if !st.IsDir() {
				return fmt.Errorf("%q is not a directory", dir)
			}

			if !force {
				for _, name := range config.FileNames {
					existing := filepath.Join(dir, name)
					if _, err := os.Stat(existing); err == nil {
						return fmt.Errorf("already initialized: %s exists", existing)
					}
				}
			}

			path := filepath.Join(dir, "extras."+format)
			if err := config.WriteFile(config.Default(), path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)

			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "config file format (yaml|toml)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}
