package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/edgebridge"
	"github.com/aretw0/edgebridge/internal/cli"
	"github.com/aretw0/edgebridge/internal/presentation/tui"
	edgehttp "github.com/aretw0/edgebridge/pkg/adapters/http"
	"github.com/spf13/cobra"
)

const shutdownGrace = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON HTTP server",
	Long:  `Starts edgebridge with an HTTP API: POST /commands/{name}, GET /resources?uri=, GET /openapi.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.HTTP.Port, _ = cmd.Flags().GetInt("port")
		}

		logger := newLogger(cfg)
		rt, err := cli.Build(cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := rt.Close(context.Background()); err != nil {
				logger.Warn("Shutdown incomplete", "err", err)
			}
		}()

		opts := []edgehttp.Option{edgehttp.WithLogger(logger)}
		if rt.Metrics != nil {
			opts = append(opts, edgehttp.WithMetrics(rt.Metrics.Handler()))
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
			Handler:           edgehttp.NewHandler(rt.Bridge, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		tui.PrintBanner(os.Stdout, edgebridge.Version)

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting edgebridge HTTP server", "addr", srv.Addr, "engine", cfg.Engine.Kind)
			serverErrors <- srv.ListenAndServe()
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
			logger.Info("Start shutdown")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", shutdownGrace, "err", err)
				return srv.Close()
			}
			logger.Info("HTTP server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
