package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCredentialsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage Signaliz API credentials",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Check the configured API key against the API",
		Long: `Test sends a minimal enrichment request with the configured API key.
A rejected key, or an API that cannot be reached, is reported as invalid
credentials. The request counts against the account like any other call.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := loadProject(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer p.close(ctx)

			if err := p.plugin.TestCredentials(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Credentials are valid (%s)\n", p.plugin.Config.BaseURL)
			return nil
		},
	})

	return cmd
}
