package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	httpapi "tasker.com/tasker/internal/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the tasks REST API on APP_HOST:APP_PORT",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(appOptions{asyncNotify: true})
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true

		handler := httpapi.NewHandler(a.tasks, a.log)
		httpapi.Register(e, handler, a.cfg.RateLimit, a.log)

		errCh := make(chan error, 1)
		go func() {
			a.log.Logf("[INFO] HTTP server listening on %s", a.cfg.AppURL)
			if err := e.Start(a.cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case <-ctx.Done():
		case err := <-errCh:
			return err
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			a.log.Logf("[WARN] server shutdown: %v", err)
		}

		a.log.Logf("[INFO] HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
