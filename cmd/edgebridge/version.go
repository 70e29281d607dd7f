package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/edgebridge"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of edgebridge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "edgebridge version %s\n", strings.TrimSpace(edgebridge.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
