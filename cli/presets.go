package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/vesting-engine/bitcoin"
)

func newPresetsCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List built-in schemes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), renderPresets(bitcoin.Presets()))
			return nil
		},
	}
}
