package cmd

import (
	"fmt"

	"github.com/brk3/habittracker/pkg/habit"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// habitFlags are shared by add and edit.
type habitFlags struct {
	description   string
	category      string
	icon          string
	color         string
	frequency     string
	days          []int
	timesPerWeek  int
	timesPerMonth int
	reminders     []string
	reminderDays  []int
}

func (f *habitFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.description, "description", "", "habit description")
	fs.StringVar(&f.category, "category", "", "category, e.g. Health or Fitness")
	fs.StringVar(&f.icon, "icon", "", "icon name")
	fs.StringVar(&f.color, "color", "", "display color, e.g. #6200ee")
	fs.StringVar(&f.frequency, "frequency", "", "daily, weekly or custom")
	fs.IntSliceVar(&f.days, "days", nil, "weekdays for a weekly habit, 0=Sunday")
	fs.IntVar(&f.timesPerWeek, "times-per-week", 0, "target count for a custom habit")
	fs.IntVar(&f.timesPerMonth, "times-per-month", 0, "target count for a custom habit")
	fs.StringSliceVar(&f.reminders, "reminder", nil, "reminder time HH:MM, repeatable")
	fs.IntSliceVar(&f.reminderDays, "reminder-days", nil, "weekdays reminders fire on, 0=Sunday (default every day)")
}

func (f *habitFlags) parseFrequency() (*habit.Frequency, error) {
	var freq habit.Frequency
	switch habit.FrequencyType(f.frequency) {
	case "":
		return nil, nil
	case habit.Daily:
		freq = habit.DailyFrequency()
	case habit.Weekly:
		freq = habit.WeeklyFrequency(f.days...)
	case habit.Custom:
		freq = habit.Frequency{Type: habit.Custom, TimesPerWeek: f.timesPerWeek, TimesPerMonth: f.timesPerMonth}
	default:
		return nil, fmt.Errorf("unknown frequency %q: want daily, weekly or custom", f.frequency)
	}
	return &freq, nil
}

func (f *habitFlags) parseReminders() []habit.Reminder {
	out := make([]habit.Reminder, 0, len(f.reminders))
	for _, t := range f.reminders {
		out = append(out, habit.Reminder{Time: t, Days: f.reminderDays})
	}
	return out
}

func newAddCmd(a *app) *cobra.Command {
	var f habitFlags
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a habit",
		Long:  `The "add" command creates a new habit and prints its id.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			freq, err := f.parseFrequency()
			if err != nil {
				return err
			}
			st, closeFn, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			id, err := st.Create(habit.NewHabit{
				Name:        args[0],
				Description: f.description,
				Icon:        f.icon,
				Category:    habit.Category(f.category),
				Color:       f.color,
				Frequency:   freq,
				Reminders:   f.parseReminders(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	f.bind(cmd.Flags())
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var f habitFlags
	var name string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a habit's details",
		Long: `The "edit" command updates only the fields given as flags. Completions and
streaks are left alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			var p habit.Patch
			if fs.Changed("name") {
				p.Name = &name
			}
			if fs.Changed("description") {
				p.Description = &f.description
			}
			if fs.Changed("icon") {
				p.Icon = &f.icon
			}
			if fs.Changed("color") {
				p.Color = &f.color
			}
			if fs.Changed("category") {
				c := habit.Category(f.category)
				p.Category = &c
			}
			freq, err := f.parseFrequency()
			if err != nil {
				return err
			}
			p.Frequency = freq
			if fs.Changed("reminder") {
				r := f.parseReminders()
				p.Reminders = &r
			}
			if p.Empty() {
				return fmt.Errorf("nothing to change: pass at least one flag")
			}

			st, closeFn, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			if _, ok := st.Get(args[0]); !ok {
				return fmt.Errorf("habit %s not found", args[0])
			}
			if err := st.Update(args[0], p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new habit name")
	f.bind(cmd.Flags())
	return cmd
}
