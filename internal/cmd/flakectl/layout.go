package flakectl

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newLayoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the bit layout and its masks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := snowflakeFromFlags(cmd, 0)
			if err != nil {
				return err
			}

			l := gen.Layout()
			epoch := time.UnixMilli(int64(gen.Epoch())).UTC()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "epoch\t%d\t%s\n", gen.Epoch(), epoch.Format(time.RFC3339))
			fmt.Fprintf(tw, "timestamp\t%d bits\t%#016x\n", l.TimestampBits, l.TimestampMask())
			fmt.Fprintf(tw, "identifier\t%d bits\t%#016x\tmax %d\n", l.IdentifierBits, l.IdentifierMask(), l.MaxIdentifier())
			fmt.Fprintf(tw, "sequence\t%d bits\t%#016x\tmax %d\n", l.SequenceBits, l.SequenceMask(), l.MaxSequence())
			return tw.Flush()
		},
	}
}
