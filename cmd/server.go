package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/brk3/habittracker/internal/server"
	"github.com/spf13/cobra"
)

func newServerCmd(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = a.cfg.ListenAddr
			}
			st, closeFn, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(st).Run(ctx, listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (default from config, 127.0.0.1:8080)")
	return cmd
}
