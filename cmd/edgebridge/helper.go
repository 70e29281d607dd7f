package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/edgebridge/pkg/adapters/memory"
	"github.com/aretw0/edgebridge/pkg/adapters/process"
	"github.com/spf13/cobra"
)

// helperCmd speaks the bridge helper protocol on stdin/stdout backed by the
// simulated engine. Pointing engine.bridge.command at it exercises the
// bridge engine without a CAD installation.
var helperCmd = &cobra.Command{
	Use:    "helper",
	Short:  "Serve the bridge helper protocol with the simulated engine",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var opts []memory.EngineOption
		if running, _ := cmd.Flags().GetBool("running"); running {
			opts = append(opts, memory.WithRunningInstance())
		}
		return process.Serve(ctx, memory.NewEngine(opts...), os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(helperCmd)
	helperCmd.Flags().Bool("running", true, "Report an already running instance on attach")
}
