package cli

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/cmdguard/internal/app"
	"github.com/doeshing/cmdguard/internal/services"
)

func newRunCommand(container *app.Container) *cobra.Command {
	var (
		describe  string
		yes       bool
		dryRun    bool
		timeout   int
		dir       string
		allowSudo bool
		noStrict  bool
		allowDirs []string
	)

	cmd := &cobra.Command{
		Use:   "run [command]",
		Short: "Classify, confirm, and execute a command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy := container.Policy
			if timeout > 0 {
				policy.ExecutionTimeoutSeconds = timeout
			}
			if dir != "" {
				policy.WorkingDir = dir
			}
			if allowSudo {
				policy.AllowSudo = true
			}
			if noStrict {
				policy.StrictMode = false
			}
			if yes {
				policy.AutoConfirm = true
			}
			if len(allowDirs) > 0 {
				// Copy so the invocation never grows into the shared
				// container policy's backing array.
				dirs := make([]string, 0, len(policy.AllowedDirs)+len(allowDirs))
				dirs = append(dirs, policy.AllowedDirs...)
				policy.AllowedDirs = append(dirs, allowDirs...)
			}

			candidate, err := container.Translator.Translate(cmd.Context(), joinArgs(args))
			if err != nil {
				return err
			}
			candidate.Description = describe

			result, err := container.Pipeline.Run(services.RunRequest{
				Context: cmd.Context(),
				Command: candidate,
				Policy:  policy,
				DryRun:  dryRun,
			})
			RenderResult(cmd.OutOrStdout(), result)
			return err
		},
	}

	cmd.Flags().StringVar(&describe, "describe", "", "Human-readable description attached to the history entry")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Auto-confirm medium risk commands (critical is still blocked)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify and decide, but do not spawn a process")
	cmd.Flags().IntVar(&timeout, "timeout", 0, "Execution timeout in seconds (overrides policy)")
	cmd.Flags().StringVar(&dir, "dir", "", "Working directory for execution")
	cmd.Flags().BoolVar(&allowSudo, "allow-sudo", false, "Permit privileged commands for this invocation")
	cmd.Flags().BoolVar(&noStrict, "no-strict", false, "Allow high-risk commands to be confirmed instead of blocked")
	cmd.Flags().StringSliceVar(&allowDirs, "allow-dir", nil, "Restrict file operations to these directories")

	return cmd
}

func newCheckCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [command]",
		Short: "Classify and decide without executing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidate, err := container.Translator.Translate(cmd.Context(), joinArgs(args))
			if err != nil {
				return err
			}

			result, err := container.Pipeline.Run(services.RunRequest{
				Context:      cmd.Context(),
				Command:      candidate,
				Policy:       container.Policy,
				ClassifyOnly: true,
			})
			RenderResult(cmd.OutOrStdout(), result)
			return err
		},
	}
	return cmd
}
