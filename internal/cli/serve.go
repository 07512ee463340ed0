package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"casa/internal/backend"
	apphttp "casa/internal/http"
	"casa/internal/log"
)

const shutdownTimeout = 30 * time.Second

func (a *app) serveCmd() *cobra.Command {
	var writeLimit int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger web page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				cfg := apphttp.DefaultConfig(":" + a.cfg.Port)
				if writeLimit > 0 {
					cfg.WriteRequestsPerMinute = writeLimit
				}
				srv, err := apphttp.NewServer(cfg, res.Service, res.Metrics, a.logger)
				if err != nil {
					return err
				}

				ctx, cancel := GracefulShutdown(cmd.Context(), a.logger, func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
					defer shutdownCancel()
					if err := srv.Shutdown(shutdownCtx); err != nil {
						a.logger.LogError(shutdownCtx, "Server shutdown error", err, log.ErrorTypeNetwork, log.OpStartup)
					}
				})
				defer cancel()

				a.logger.Info("HTTP server starting",
					"addr", cfg.Addr,
					"backend", a.cfg.DataBackend,
					"write_limit_per_minute", cfg.WriteRequestsPerMinute)

				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				<-ctx.Done()
				a.logger.Info("Server stopped")
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&writeLimit, "write-limit", 0, "POST requests allowed per client per minute")
	return cmd
}
