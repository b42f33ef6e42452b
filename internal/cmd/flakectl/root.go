package flakectl

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shandysiswandi/flaken/internal/pkg/pkguid"
	"github.com/spf13/cobra"
)

// NewRoot constructs the root command and registers every subcommand.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "flakectl",
		Short:         "Issue, decode and encode flake ids",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.Uint64("epoch", pkguid.DefaultEpoch, "Epoch in milliseconds since the Unix epoch")
	flags.Uint64("timestamp-bits", pkguid.DefaultTimestampBits, "Width of the timestamp field")
	flags.Uint64("identifier-bits", pkguid.DefaultIdentifierBits, "Width of the identifier field")

	root.AddCommand(
		newNextCommand(),
		newDecodeCommand(),
		newEncodeCommand(),
		newLayoutCommand(),
	)

	return root
}

// snowflakeFromFlags builds a generator from the persistent layout flags.
func snowflakeFromFlags(cmd *cobra.Command, identifier int64) (*pkguid.Snowflake, error) {
	epoch, _ := cmd.Flags().GetUint64("epoch")
	tsBits, _ := cmd.Flags().GetUint64("timestamp-bits")
	idBits, _ := cmd.Flags().GetUint64("identifier-bits")

	gen, err := pkguid.NewSnowflake(pkguid.SnowflakeConfig{
		Epoch:          epoch,
		TimestampBits:  tsBits,
		IdentifierBits: idBits,
		Identifier:     identifier,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	return gen, nil
}

// parseTimestamp accepts milliseconds since the Unix epoch or RFC3339.
func parseTimestamp(raw string) (uint64, error) {
	if ms, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return ms, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil && t.UnixMilli() >= 0 {
		return uint64(t.UnixMilli()), nil
	}
	return 0, fmt.Errorf("invalid timestamp %q; expected ms or RFC3339", raw)
}
