package cmd

import (
	"fmt"
	"io"

	"github.com/brk3/habittracker/internal/apiclient"
	"github.com/brk3/habittracker/pkg/habit"
	"github.com/spf13/cobra"
)

func newDoneCmd(a *app) *cobra.Command {
	var date, api string
	cmd := &cobra.Command{
		Use:   "done ID",
		Short: "Toggle a habit's completion for a day",
		Long: `The "done" command marks a habit completed for today, or for --date. Running it
again for the same day removes the completion. Use --api to toggle through a
running server, which holds the database lock.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			out := cmd.OutOrStdout()
			if api != "" {
				c := apiclient.New(api)
				h, err := c.GetHabit(cmd.Context(), id)
				if err != nil {
					return err
				}
				resp, err := c.Toggle(cmd.Context(), id, date)
				if err != nil {
					return err
				}
				printToggle(out, h.Name, resp.Completed, resp.Date, resp.Streak, resp.BestStreak)
				return nil
			}

			st, closeFn, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			if _, ok := st.Get(id); !ok {
				return fmt.Errorf("habit %s not found", id)
			}
			day := st.Today()
			if date != "" {
				if day, err = habit.ParseDay(date, st.Location()); err != nil {
					return err
				}
			}
			if err := st.ToggleCompletion(id, day); err != nil {
				return err
			}

			h, _ := st.Get(id)
			printToggle(out, h.Name, st.IsCompletedOn(id, day), habit.DayKey(day), h.Streak, h.BestStreak)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to toggle as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&api, "api", "", "toggle through this server URL, e.g. http://localhost:8080")
	return cmd
}

func printToggle(w io.Writer, name string, completed bool, day string, streak, best int) {
	state := "not done"
	if completed {
		state = "done"
	}
	fmt.Fprintf(w, "%s %s on %s (streak %d, best %d)\n", name, state, day, streak, best)
}
