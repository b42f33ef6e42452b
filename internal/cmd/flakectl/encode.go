package flakectl

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEncodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Pack a timestamp, identifier and sequence into an id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rawTS, _ := cmd.Flags().GetString("timestamp")
			identifier, _ := cmd.Flags().GetUint64("identifier")
			sequence, _ := cmd.Flags().GetUint64("sequence")

			ts, err := parseTimestamp(rawTS)
			if err != nil {
				return err
			}

			gen, err := snowflakeFromFlags(cmd, 0)
			if err != nil {
				return err
			}

			id, err := gen.Encode(ts, identifier, sequence)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().String("timestamp", "", "Milliseconds since the Unix epoch, or RFC3339")
	cmd.Flags().Uint64("identifier", 0, "Identifier; truncated to the identifier width")
	cmd.Flags().Uint64("sequence", 0, "Sequence; truncated to the sequence width")
	_ = cmd.MarkFlagRequired("timestamp")

	return cmd
}
