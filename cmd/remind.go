package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/brk3/habittracker/internal/apiclient"
	"github.com/brk3/habittracker/internal/clock"
	"github.com/brk3/habittracker/internal/logger"
	"github.com/brk3/habittracker/internal/reminder"
	"github.com/brk3/habittracker/internal/reminder/resend"
	"github.com/brk3/habittracker/pkg/habit"
	"github.com/spf13/cobra"
)

func newRemindCmd(a *app) *cobra.Command {
	var api string
	var once bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send reminders as they come due",
		Long: `The "remind" command polls habits and fires each reminder at its HH:MM time.
Reminders are emailed through Resend when reminders.resend_api_key and
reminders.notify_email are configured, and logged otherwise. Use --api to read
habits from a running server instead of the local database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, err := a.cfg.PollInterval()
			if err != nil {
				return err
			}
			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}

			var src reminder.Source
			if api != "" {
				src = apiclient.New(api)
			} else {
				st, closeFn, err := a.openStore()
				if err != nil {
					return err
				}
				defer closeFn()
				src = reminder.SourceFunc(func(context.Context) ([]habit.Habit, error) {
					return st.List(), nil
				})
			}

			var n reminder.Notifier = reminder.LogNotifier{}
			rc := a.cfg.Reminders
			if rc.ResendAPIKey != "" && rc.NotifyEmail != "" {
				n = resend.New(rc.ResendAPIKey, rc.FromEmail, rc.NotifyEmail)
			} else {
				logger.Info("Resend not configured, reminders will be logged only")
			}

			p := &reminder.Poller{
				Source:   src,
				Notifier: n,
				Clock:    clock.System{Location: loc},
				Interval: interval,
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if once {
				_, err := p.Check(ctx)
				return err
			}
			if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&api, "api", "", "read habits from this server URL, e.g. http://localhost:8080")
	cmd.Flags().BoolVar(&once, "once", false, "check once and exit")
	return cmd
}
