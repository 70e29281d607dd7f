package main

import (
	"encoding/json"

	"github.com/aretw0/edgebridge"
	"github.com/aretw0/edgebridge/internal/presentation/tui"
	edgehttp "github.com/aretw0/edgebridge/pkg/adapters/http"
	"github.com/aretw0/edgebridge/pkg/adapters/memory"
	"github.com/aretw0/edgebridge/pkg/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Describe every command and resource",
	Long: `Prints the published commands, their variants and parameters, and the resource URIs.
Lengths and angles are labelled in the configured caller units.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		sys, err := cfg.UnitSystem()
		if err != nil {
			return err
		}

		// The surface does not depend on the engine, so no connection is made.
		bridge, err := edgebridge.New(memory.NewEngine(), edgebridge.WithUnits(sys))
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "json":
			return enc.Encode(catalog.Describe(bridge.Commands(), bridge.Resources(), sys))
		case "openapi":
			return enc.Encode(edgehttp.OpenAPI(bridge.Commands()))
		default:
			return tui.RenderCatalog(cmd.OutOrStdout(), catalog.Describe(bridge.Commands(), bridge.Resources(), sys))
		}
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringP("format", "f", "markdown", "Output format: markdown, json or openapi")
}
