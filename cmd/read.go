package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gregLibert/emv-reader/pkg/iso7816"
	"github.com/gregLibert/emv-reader/pkg/reader"
)

var readOpts struct {
	json  bool
	trace bool
	fci   bool
}

// readCmd represents the read command
var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Wait for a card and read it once",
	Long: `Read waits for a contactless card, selects the payment application
and prints the decoded answer.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		var opts []reader.Option
		if readOpts.trace {
			opts = append(opts, reader.WithTrace(func(res *iso7816.SelectResult) {
				fmt.Fprintln(out, res.Describe())
			}))
		}
		r, err := newReader(cfg, log, opts...)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.TimeoutDuration())
		defer cancel()

		fmt.Fprintf(cmd.ErrOrStderr(), "Present a card (%s)...\n", cfg.Timeout)
		summary, err := r.Read(ctx)
		if err != nil {
			return fmt.Errorf("read failed: %w", err)
		}

		if readOpts.json {
			return printJSON(out, summary)
		}
		printSummary(out, summary)
		if readOpts.fci && summary.FCI != nil {
			fmt.Fprintln(out)
			fmt.Fprint(out, summary.FCI.Describe())
		}
		return nil
	},
}

func init() {
	readCmd.Flags().BoolVar(&readOpts.json, "json", false, "print the summary as JSON")
	readCmd.Flags().BoolVar(&readOpts.trace, "trace", false, "print the APDU exchange")
	readCmd.Flags().BoolVar(&readOpts.fci, "fci", false, "print the strict FCI view")
}
