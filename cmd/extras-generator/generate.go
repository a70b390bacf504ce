package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"extras-generator/internal/config"
	"extras-generator/internal/gen"
)

type generateOptions struct {
	out          string
	dryRun       bool
	print        bool
	workers      int
	noBinders    bool
	navigator    string
	navigatorPkg string
	watch        bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [packages]",
		Short: "Generate builders, binders and the navigator",
		Long: `Generate loads the given package patterns (or the configured ones), plans
every model and writes the generated files next to each model, or under
--out. Rejected models are reported and skipped; the rest are generated.`,
		Aliases: []string{"gen"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd, args, opts.configOptions(cmd)...)
			if err != nil {
				return err
			}

			if opts.watch {
				return watch(cmd, root, opts, cfg)
			}

			_, err = runGenerate(cmd, root, opts, cfg)

			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.out, "out", "o", "", "write generated files under this directory")
	f.BoolVar(&opts.dryRun, "dry-run", false, "render files without writing them")
	f.BoolVar(&opts.print, "print", false, "print rendered files to stdout (implies --dry-run)")
	f.IntVarP(&opts.workers, "workers", "j", 0, "concurrent file writes (default: number of CPUs)")
	f.BoolVar(&opts.noBinders, "no-binders", false, "skip binder generation")
	f.StringVar(&opts.navigator, "navigator", "", "write the navigator file to this directory")
	f.StringVar(&opts.navigatorPkg, "navigator-package", "", "package name of the navigator file")
	f.BoolVarP(&opts.watch, "watch", "w", false, "regenerate whenever a model package changes")

	return cmd
}

// configOptions turns the flags set on cmd into config options.
func (o *generateOptions) configOptions(cmd *cobra.Command) []config.Option {
	var opts []config.Option

	if o.out != "" {
		opts = append(opts, config.WithOutputDir(o.out))
	}

	if o.dryRun || o.print {
		opts = append(opts, config.WithDryRun(true))
	}

	if cmd.Flags().Changed("workers") {
		opts = append(opts, config.WithWorkers(o.workers))
	}

	if o.noBinders {
		opts = append(opts, config.WithBinders(false))
	}

	if o.navigator != "" {
		opts = append(opts, config.WithNavigator(o.navigator, o.navigatorPkg))
	}

	return opts
}

// runGenerate runs one generation pass and reports it.
func runGenerate(
	cmd *cobra.Command,
	root *rootOptions,
	opts *generateOptions,
	cfg *config.Config,
) (*gen.Result, error) {
	result, err := gen.Run(cmd.Context(), cfg)

	if result != nil {
		printDiagnostics(cmd.ErrOrStderr(), result.Diagnostics, root.colored(cmd.ErrOrStderr()))
	}

	if err != nil {
		return result, err
	}

	if opts.print {
		printFiles(cmd.OutOrStdout(), result.Files)
	}

	if !root.quiet {
		printSummary(cmd.ErrOrStderr(), result.Diagnostics, root.colored(cmd.ErrOrStderr()))
	}

	return result, rejected(result.Diagnostics)
}

func printFiles(w io.Writer, files []gen.GeneratedFile) {
	for _, f := range files {
		fmt.Fprintf(w, "// ==> %s\n", f.Path())
		_, _ = w.Write(f.Content)
		fmt.Fprintln(w)
	}
}
