// Package cli wires the cobra command tree and the interactive frontend.
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdguard/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(opts.Verbose)
	if err != nil {
		return nil, err
	}
	container.Pipeline.Prompter = NewPrompter(nil, nil)

	runCmd := newRunCommand(container)

	root := &cobra.Command{
		Use:   "cmdguard [command]",
		Short: "cmdguard - command risk classification and safe execution",
		Long: "cmdguard classifies a candidate shell command against a signature catalog,\n" +
			"applies a safety policy, asks for confirmation when needed, and executes it\n" +
			"under a timeout watchdog. Every invocation is recorded.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			// Bare arguments that match no subcommand are treated as the
			// command to run, with the run command's flag defaults.
			return runCmd.RunE(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// Everything after the first positional argument belongs to the delegated
	// command text, not to cmdguard's own flags.
	root.Flags().SetInterspersed(false)

	root.AddCommand(runCmd)
	root.AddCommand(newCheckCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newCatalogCommand(container))
	root.AddCommand(newVersionCommand())
	return root, nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
