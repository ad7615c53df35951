package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gregLibert/emv-reader/pkg/emv"
	"github.com/gregLibert/emv-reader/pkg/tlv"
)

var decodeOpts struct {
	json bool
	fci  bool
}

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <hex>...",
	Short: "Decode a card response given as hex",
	Long: `Decode interprets a response captured earlier, without any reader.
Arguments are concatenated; spaces, colons and dashes are ignored.`,
	Example: `  emv-reader decode 6F1F840A...9000
  emv-reader decode "5A 08 41 11 11 11 11 11 11 11" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := tlv.ParseHex(strings.Join(args, ""))
		if err != nil {
			return err
		}

		summary := emv.Summarize(raw)
		out := cmd.OutOrStdout()

		if decodeOpts.fci {
			fci, err := emv.ParseFCI(raw)
			if err != nil && len(raw) > 2 {
				// A response copied from a trace ends with the status word.
				fci, err = emv.ParseFCI(raw[:len(raw)-2])
			}
			if err != nil {
				return fmt.Errorf("not an FCI: %w", err)
			}
			summary.FCI = fci
		}

		if decodeOpts.json {
			return printJSON(out, summary)
		}
		printSummary(out, summary)
		if summary.FCI != nil {
			fmt.Fprintln(out)
			fmt.Fprint(out, summary.FCI.Describe())
		}
		return nil
	},
}

func init() {
	decodeCmd.Flags().BoolVar(&decodeOpts.json, "json", false, "print the summary as JSON")
	decodeCmd.Flags().BoolVar(&decodeOpts.fci, "fci", false, "also parse the input as a strict FCI template")
}
