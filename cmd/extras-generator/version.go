package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// Build metadata, set with -ldflags "-X main.Version=...".
var (
	Version   = "dev"
	GitCommit = ""
	BuildDate = ""
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
}

func newVersionCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(format)
			if err := checkFormat(format, "pretty", "json"); err != nil {
				return err
			}

			info := collectVersion()
			if format == "json" {
				return renderVersionJSON(cmd.OutOrStdout(), info)
			}

			renderVersionPretty(cmd.OutOrStdout(), info)

			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "pretty", "output format (pretty|json)")

	return cmd
}

func collectVersion() versionPayload {
	info := versionPayload{
		Tool:      "extras-generator",
		Version:   strings.TrimSpace(Version),
		GitCommit: strings.TrimSpace(GitCommit),
		BuildDate: strings.TrimSpace(BuildDate),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion

		if info.Version == "" || info.Version == "dev" {
			if v := bi.Main.Version; v != "" && v != "(devel)" {
				info.Version = v
			}
		}

		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		}
	}

	if info.Version == "" {
		info.Version = "dev"
	}

	return info
}

func renderVersionPretty(out io.Writer, info versionPayload) {
	fmt.Fprintf(out, "%s %s\n", info.Tool, info.Version)

	if info.GitCommit != "" {
		fmt.Fprintf(out, "commit: %s\n", info.GitCommit)
	}

	if info.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s\n", info.BuildDate)
	}

	if info.GoVersion != "" {
		fmt.Fprintf(out, "go:     %s\n", info.GoVersion)
	}
}

func renderVersionJSON(out io.Writer, info versionPayload) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	return enc.Encode(info)
}
