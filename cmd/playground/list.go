package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/networkteam/playground/scenario"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [pattern...]",
		Short: "List scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range scenario.Select(args...) {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Slug(), s.Name, s.Path)
			}
			return w.Flush()
		},
	}
}
