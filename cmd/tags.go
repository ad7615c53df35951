package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gregLibert/emv-reader/pkg/emv"
)

// tagsCmd represents the tags command
var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the EMV tags the decoder knows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tID\tDESCRIPTION")
		for _, def := range emv.Definitions() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", def.Code, def.ID, def.Description)
		}
		return w.Flush()
	},
}
