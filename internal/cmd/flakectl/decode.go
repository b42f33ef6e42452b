package flakectl

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <id>...",
		Short: "Split ids into timestamp, identifier and sequence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := snowflakeFromFlags(cmd, 0)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, arg := range args {
				id, err := strconv.ParseUint(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid id %q", arg)
				}

				p := gen.Decode(id)
				fmt.Fprintf(out, "id=%d timestamp=%d time=%s identifier=%d sequence=%d\n",
					id, p.Timestamp, p.Time().Format(time.RFC3339Nano), p.Identifier, p.Sequence)
			}
			return nil
		},
	}
}
