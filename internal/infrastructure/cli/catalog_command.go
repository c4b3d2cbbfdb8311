package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdguard/internal/app"
	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/infrastructure/security"
	"github.com/doeshing/cmdguard/internal/version"
)

func newCatalogCommand(container *app.Container) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and manage the signature catalog",
	}

	catalogCmd.AddCommand(
		newCatalogListCommand(container),
		newCatalogInitCommand(),
	)

	return catalogCmd
}

func newCatalogListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active signatures in declaration order",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, sig := range container.Catalog.Signatures() {
				flags := ""
				if sig.AlwaysBlock {
					flags = " [always-block]"
				}
				if sig.RequiresPrivilege {
					flags += " [privileged]"
				}
				tier := domain.ParseRiskTier(sig.Tier)
				fmt.Fprintf(out, "%-22s %-9s %s%s\n", sig.ID, tierColor(tier).Sprint(tier), sig.Label, flags)
			}
			return nil
		},
	}
}

func newCatalogInitCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default catalog file for customization",
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := security.WriteDefaultCatalog(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default catalog written to %s\n", written)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Destination path (default ~/.cmdguard/catalog.yaml)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show cmdguard version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cmdguard version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, "Commit: %s\n", version.Commit)
			}
			if version.BuildDate != "" {
				fmt.Fprintf(out, "Built: %s\n", version.BuildDate)
			}
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			return nil
		},
	}
}
