package main

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "signal-service",
	Short: "Trading signal monitoring backend",
	Long: `signal-service persists externally generated trading signals and serves
them to the dashboard: filtered listings, aggregate statistics and
high-confidence owner notifications.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
