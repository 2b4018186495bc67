package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stockops",
	Short: "Inventory forecasting and procurement engine CLI",
	Long: `Operational commands for the stockops engine: run migrations, import
channel order history, run the forecast from a terminal and drive the cron
scheduler. The HTTP server has its own entrypoint.`,
}

// Execute applies registered custom commands and runs the CLI.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
