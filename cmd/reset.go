package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every habit and completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all data without --yes")
			}
			st, closeFn, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := st.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all habit data deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all data")
	return cmd
}
