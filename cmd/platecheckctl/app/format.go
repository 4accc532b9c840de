package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autopeer-io/platecheck/pkg/vrm"
)

func newFormatCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "format REGISTRATION",
		Short:   "Normalise a registration mark and print its display form",
		Example: "  platecheckctl format 'wa67 ysb'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := vrm.Normalize(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), vrm.Format(reg))
			return nil
		},
	}
}
