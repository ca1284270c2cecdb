package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/sflowg/signaliz/plugins/signaliz"
	"github.com/spf13/cobra"
)

func newResourcesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List the research resources and their operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resources := signaliz.Resources()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resources)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RESOURCE\tOPERATION\tENDPOINT\tDESCRIPTION")
			for _, r := range resources {
				for _, op := range r.Operations {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Resource, op.Name, r.Endpoint, op.Description)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalogue as JSON")

	return cmd
}
