package cmd

import (
	"fmt"
	"io"

	"github.com/brk3/habittracker/internal/apiclient"
	"github.com/brk3/habittracker/pkg/habit"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	var api string
	cmd := &cobra.Command{
		Use:   "stats ID",
		Short: "Show streaks and completion rates for a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if api != "" {
				s, err := apiclient.New(api).GetHabitStats(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				renderSummary(cmd.OutOrStdout(), *s)
				return nil
			}

			st, closeFn, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			s, ok := st.Stats(args[0])
			if !ok {
				return fmt.Errorf("habit %s not found", args[0])
			}
			renderSummary(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVar(&api, "api", "", "read stats from this server URL, e.g. http://localhost:8080")
	return cmd
}

func renderSummary(w io.Writer, s habit.Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(s.Name)
	tw.AppendRows([]table.Row{
		{"Current streak", s.CurrentStreak},
		{"Best streak", s.BestStreak},
		{"Longest run", s.LongestRun},
		{"Total completions", s.TotalCompletions},
		{"Last 30 days", fmt.Sprintf("%d%%", s.CompletionRate)},
		{"This month", s.ThisMonth},
		{"Best month", s.BestMonth},
	})
	if s.FirstCompleted != nil {
		tw.AppendRow(table.Row{"First completed", habit.DayKey(*s.FirstCompleted)})
	}
	if s.LastCompleted != nil {
		tw.AppendRow(table.Row{"Last completed", habit.DayKey(*s.LastCompleted)})
	}
	tw.Render()
}
