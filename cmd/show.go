package cmd

import (
	"fmt"
	"strings"

	"github.com/brk3/habittracker/internal/stats"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	var view string
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a habit and its progress chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := stats.ParseView(view)
			if err != nil {
				return err
			}
			st, closeFn, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			h, ok := st.Get(args[0])
			if !ok {
				return fmt.Errorf("habit %s not found", args[0])
			}
			series, _ := st.Chart(h.ID, v)
			h = stats.Live(h, st.Today())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", h.Name, h.ID)
			if h.Description != "" {
				fmt.Fprintf(out, "  %s\n", h.Description)
			}
			fmt.Fprintf(out, "  category:  %s\n", h.Category)
			fmt.Fprintf(out, "  frequency: %s\n", h.Frequency)
			fmt.Fprintf(out, "  streak:    %d (best %d)\n", h.Streak, h.BestStreak)
			if len(h.Reminders) > 0 {
				times := make([]string, len(h.Reminders))
				for i, r := range h.Reminders {
					times[i] = r.Time
				}
				fmt.Fprintf(out, "  reminders: %s\n", strings.Join(times, ", "))
			}
			fmt.Fprintln(out)

			tw := table.NewWriter()
			tw.SetOutputMirror(out)
			tw.SetTitle(fmt.Sprintf("This %s", series.View))
			header := table.Row{}
			row := table.Row{}
			for _, b := range series.Buckets {
				header = append(header, b.Label)
				row = append(row, b.Count)
			}
			tw.AppendHeader(header)
			tw.AppendRow(row)
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&view, "range", string(stats.ViewWeek), "chart range: week, month or quarter")
	return cmd
}
