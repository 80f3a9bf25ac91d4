package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ceacwatch/internal/httpapi"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll CEAC periodically and notify on changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			srv := &http.Server{
				Addr: ":" + app.cfg.Port,
				Handler: httpapi.NewRouter(httpapi.ReadyzCheck{
					Name: "history",
					Check: func(ctx context.Context) error {
						_, err := app.store.Load(ctx)
						return err
					},
				}),
			}
			healthErrCh := make(chan error, 1)
			go func() {
				slog.Info("operational endpoints listening", "port", app.cfg.Port)
				healthErrCh <- srv.ListenAndServe()
			}()

			watchErrCh := make(chan error, 1)
			go func() {
				slog.Info("watch loop starting",
					"interval", app.cfg.CheckInterval,
					"history_backend", app.cfg.HistoryBackend,
				)
				watchErrCh <- app.runner.Watch(ctx, app.cfg.CheckInterval)
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-watchErrCh:
				if err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
			case err := <-healthErrCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case sig := <-sigCh:
				slog.Info("shutting down", "signal", sig.String())
			}

			cancel()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)

			select {
			case <-watchErrCh:
			case <-time.After(10 * time.Second):
				slog.Info("shutdown timeout waiting for watch loop")
			}
			return nil
		},
	}
}
