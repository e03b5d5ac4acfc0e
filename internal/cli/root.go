// Package cli wires the cobra command tree for the mediahub binary.
package cli

import (
	"io"

	"github.com/spf13/cobra"
)

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// GlobalOptions carries the persistent flags shared by every command.
type GlobalOptions struct {
	JSON       bool
	Quiet      bool
	DataDir    string
	ConfigPath string
}

type commandDeps struct {
	out     io.Writer
	build   BuildInfo
	globals *GlobalOptions
}

func NewRootCommand(out io.Writer, build BuildInfo) *cobra.Command {
	globals := &GlobalOptions{}
	deps := commandDeps{out: out, build: build, globals: globals}

	cmd := &cobra.Command{
		Use:           "mediahub",
		Short:         "Track books, films, and games in per-profile libraries",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("unknown command %q", args[0])
			}
			return nil
		},
		// Bare invocation opens the interactive browser.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(deps)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf("%s", err)
	})

	flags := cmd.PersistentFlags()
	flags.BoolVar(&globals.JSON, "json", false, "Print machine-readable JSON output")
	flags.BoolVar(&globals.Quiet, "quiet", false, "Suppress non-essential output")
	flags.StringVar(&globals.DataDir, "data-dir", "", "Override the data directory")
	flags.StringVar(&globals.ConfigPath, "config", "", "Path to the config file")

	cmd.AddCommand(newProfileCommand(deps))
	cmd.AddCommand(newLibraryCommand(deps))
	cmd.AddCommand(newTransferCommand(deps))
	cmd.AddCommand(newDebugCommand(deps))
	cmd.AddCommand(newVersionCommand(deps))
	cmd.InitDefaultCompletionCmd()
	return cmd
}
