// Package main provides the CLI entrypoint for extras-generator.
//
// extras-generator scans Go packages for model types marked with
// //extras:model, and for each one writes:
//   - a staged builder that only compiles once every required extra is set
//   - a binder that copies the extras of a carrier back into the model
//   - optionally, a navigator with one Goto function per model
//
// Commands: generate | plan | check | init | version
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	color      string
	quiet      bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "extras-generator",
		Short: "Compile-time checked builders for typed extras",
		Long: `extras-generator reads //extras:model types and generates staged builders,
binders and an optional navigator, so that a missing required extra is a
compile error instead of a runtime failure.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default: extras.yaml, extras.yml or extras.toml found upwards)")
	flags.StringVar(&opts.color, "color", "auto", "colorize output (auto|on|off)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only report warnings and errors")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "report debug progress")

	cmd.AddCommand(
		newGenerateCmd(opts),
		newPlanCmd(opts),
		newCheckCmd(opts),
		newInitCmd(),
		newVersionCmd(),
	)

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		printError(os.Stderr, err, useColor("auto", os.Stderr))
		os.Exit(1)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
