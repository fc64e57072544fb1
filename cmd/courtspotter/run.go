package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/court-spotter/internal/scheduler"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the periodic sync scheduler and the ops HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer rt.close(context.Background())
			logger := rt.logger

			sched, err := scheduler.New(logger.Named("scheduler"))
			if err != nil {
				return err
			}
			if _, err := sched.AddInterval("availability-sync", rt.cfg.SyncUpdatePeriod, rt.container.Sync.OrchestrateSync); err != nil {
				return err
			}

			srv, err := rt.container.NewHTTPServer()
			if err != nil {
				return err
			}

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("http server starting", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			sched.Start()
			logger.Info("sync scheduler started", "period", rt.cfg.SyncUpdatePeriod.String())

			var runErr error
			select {
			case <-ctx.Done():
			case runErr = <-serverErr:
				logger.Error("http server failed", "error", runErr)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown failed", "error", err)
				runErr = errors.Join(runErr, err)
			}
			if err := sched.Stop(); err != nil {
				logger.Error("scheduler shutdown failed", "error", err)
				runErr = errors.Join(runErr, err)
			}

			logger.Info("courtspotter stopped")
			return runErr
		},
	}
}
