package flakectl

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newNextCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print fresh ids from a local generator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identifier, _ := cmd.Flags().GetInt64("identifier")
			count, _ := cmd.Flags().GetInt("count")
			if count < 1 {
				return errors.New("--count must be at least 1")
			}

			gen, err := snowflakeFromFlags(cmd, identifier)
			if err != nil {
				return err
			}

			for _, id := range gen.GenerateN(count) {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.Flags().Int64("identifier", 0, "Identifier to embed; -1 picks a random one")
	cmd.Flags().Int("count", 1, "Number of ids to print")

	return cmd
}
