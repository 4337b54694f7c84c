package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Edusharks/block-ide-vite-sub001/internal/cli"
	"github.com/Edusharks/block-ide-vite-sub001/internal/metrics"
	httpAdapter "github.com/Edusharks/block-ide-vite-sub001/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP editing server",
	Long: `Serves the editing sessions as a JSON API over HTTP, with live snapshots over
Server-Sent Events and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		origins, _ := cmd.Flags().GetStringSlice("allow-origin")
		debug, _ := cmd.Flags().GetBool("debug")

		m := metrics.New()
		f, closeFactory, err := cli.NewFactory(cmd.Context(), cfg, logger, cli.FactoryOptions{Debug: debug, Metrics: m})
		if err != nil {
			return err
		}
		defer closeFactory()

		handler := httpAdapter.NewHandler(f,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetricsHandler(m.Handler()),
			httpAdapter.WithAllowedOrigins(origins...),
		)

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("blockfactory server listening", "address", srv.Addr, "store", cfg.Store.Backend, "library", cfg.Library.Dir)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().StringSlice("allow-origin", nil, "CORS allowed origins (default: any)")
}
