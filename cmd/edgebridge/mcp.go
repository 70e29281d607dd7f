package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/edgebridge/internal/cli"
	"github.com/aretw0/edgebridge/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts edgebridge as an MCP server. Every composite command becomes a tool
and every resource is readable under solidedge://.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("transport") {
			cfg.MCP.Transport, _ = cmd.Flags().GetString("transport")
		}
		if cmd.Flags().Changed("port") {
			cfg.MCP.Port, _ = cmd.Flags().GetInt("port")
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

		srv := mcp.NewServer(rt.Bridge, mcp.WithLogger(logger))

		switch cfg.MCP.Transport {
		case "stdio":
			logger.Info("Starting edgebridge MCP server (stdio)", "engine", cfg.Engine.Kind)
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting edgebridge MCP server (SSE)", "port", cfg.MCP.Port, "engine", cfg.Engine.Kind)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, cfg.MCP.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", cfg.MCP.Transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
}
