package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "scope",
	Short: "StockScope - technical analysis and ranking engine",
	Long: `StockScope backend CLI.

Collects market data, runs technical analysis over the tracked
universe, and serves the results over a REST API.

Usage:
  go run ./cmd/scope [command]

Examples:
  go run ./cmd/scope api
  go run ./cmd/scope collect
  go run ./cmd/scope analyze
  go run ./cmd/scope rank --limit 20`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}
