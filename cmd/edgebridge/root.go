package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/edgebridge/internal/config"
	"github.com/aretw0/edgebridge/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "edgebridge",
	Short: "edgebridge drives a Solid Edge session on behalf of AI agents",
	Long: `edgebridge keeps the connection, document and sketch state of one CAD session
and exposes it as a small set of composite commands and read-only resources,
over MCP (stdio or SSE) or a JSON HTTP API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Configuration file (default "+config.DefaultFile+" when present)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("engine", "", "Engine: sim or bridge")
	flags.String("store", "", "Session store: none, memory, file or redis")
	flags.String("units", "", "Caller length unit: m, mm, cm, in or ft")
	flags.String("session", "", "Session identifier used for snapshots")
}

// loadConfig layers command line flags over the file and environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	override := func(flag string, target *string) {
		if cmd.Flags().Changed(flag) {
			*target, _ = cmd.Flags().GetString(flag)
		}
	}
	override("log-level", &cfg.Log.Level)
	override("log-format", &cfg.Log.Format)
	override("engine", &cfg.Engine.Kind)
	override("store", &cfg.Store.Kind)
	override("units", &cfg.Units.Linear)
	override("session", &cfg.Session.ID)

	return cfg, cfg.Validate()
}

// newLogger writes to stderr; stdout belongs to the MCP stdio transport.
func newLogger(cfg config.Config) *slog.Logger {
	return logging.New(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
}
