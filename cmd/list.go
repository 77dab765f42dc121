package cmd

import (
	"fmt"

	"github.com/brk3/habittracker/internal/stats"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List habits",
		Long:  `The "list" command lets you list your tracked habits.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeFn, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			habits := st.List()
			if len(habits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No habits yet. Create one with: habits add NAME")
				return nil
			}

			today := st.Today()
			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"ID", "Name", "Category", "Frequency", "Streak", "Best", "Today"})
			for _, h := range habits {
				h = stats.Live(h, today)
				done := ""
				if st.IsCompletedOn(h.ID, today) {
					done = "✓"
				}
				tw.AppendRow(table.Row{h.ID, h.Name, h.Category, h.Frequency.String(), h.Streak, h.BestStreak, done})
			}
			tw.Render()
			return nil
		},
	}
}
