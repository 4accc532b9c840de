package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
)

func newTierCommand(opts *CtlOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tier",
		Short: "Show or change the active subscription tier",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the active tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.components()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Tiers.Get())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set TIER",
		Short:     "Persist a new active tier",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.TierBasic), string(model.TierSilver), string(model.TierGold)},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.components()
			if err != nil {
				return err
			}
			t, err := model.ParseTier(args[0])
			if err != nil {
				return err
			}
			if err := c.Tiers.Set(t); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Tiers.Get())
			return nil
		},
	})

	return cmd
}
