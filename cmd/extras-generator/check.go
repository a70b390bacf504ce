package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"extras-generator/internal/gen"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [packages]",
		Short: "Validate models without generating anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd, args)
			if err != nil {
				return err
			}

			result, err := gen.Analyze(cmd.Context(), cfg)
			if result != nil {
				printDiagnostics(cmd.ErrOrStderr(), result.Diagnostics, root.colored(cmd.ErrOrStderr()))
			}

			if err != nil {
				return err
			}

			if err := rejected(result.Diagnostics); err != nil {
				return err
			}

			if strict && len(result.Diagnostics.Warnings) > 0 {
				return fmt.Errorf("%d warning(s) with --strict", len(result.Diagnostics.Warnings))
			}

			if !root.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "%d model(s) ok\n", len(result.Plan.Plans))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on warnings too")

	return cmd
}
