package main

import (
	"strings"

	"github.com/spf13/cobra"

	"extras-generator/internal/gen"
	"extras-generator/internal/plan"
)

func newPlanCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "plan [packages]",
		Short: "Print the stage plan of every model",
		Long: `Plan resolves and plans the models without rendering any file, and prints
the plans as YAML or JSON: the required stages in order, the entry kind and
the setters of each AllSet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if err := checkFormat(format, "yaml", "json"); err != nil {
				return err
			}

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

			var data []byte
			if format == "json" {
				data, err = plan.ExportJSON(result.Plan)
			} else {
				data, err = plan.ExportYAML(result.Plan)
			}

			if err != nil {
				return err
			}

			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return err
			}

			return rejected(result.Diagnostics)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml|json)")

	return cmd
}
