package cmd

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/quantumsignals/internal/server"
	"github.com/abhisek/quantumsignals/internal/signallog"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the signal log and stats API",
	Long: "Serves /api/signals and /api/stats from the local database on QSIGNALS_LISTEN_ADDR\n" +
		"and Prometheus metrics on QSIGNALS_METRICS_ADDR.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := ossignal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d, err := openDeps(ctx)
		if err != nil {
			return fmt.Errorf("open dependencies: %w", err)
		}
		defer d.Close()
		d.enableTracing(ctx)

		metrics, err := server.NewMetricsServer(cfg.MetricsAddr, "")
		if err != nil {
			return fmt.Errorf("create metrics server: %w", err)
		}
		if err := metrics.Start(); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}

		api := server.NewAPIServer(cfg.ListenAddr,
			d.store.Signals(cfg.Retention),
			d.store.Events(),
			metrics.Events(),
			signallog.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
			signallog.WithRetention(cfg.Retention),
		)

		errCh := make(chan error, 1)
		go func() { errCh <- api.ListenAndServe() }()

		select {
		case err = <-errCh:
		case <-ctx.Done():
			logrus.Info("received shutdown signal")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if serr := api.Shutdown(shutdownCtx); serr != nil {
			logrus.WithError(serr).Error("api server shutdown failed")
		}
		if serr := metrics.Shutdown(shutdownCtx); serr != nil {
			logrus.WithError(serr).Error("metrics server shutdown failed")
		}
		return err
	},
}
