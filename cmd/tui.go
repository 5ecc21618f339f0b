package cmd

import (
	"context"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tasker.com/tasker/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(appOptions{logOut: io.Discard})
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		interval := time.Duration(a.cfg.TUIPollIntervalSeconds) * time.Second
		return tui.Run(ctx, a.tasks, a.notifications, interval)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
