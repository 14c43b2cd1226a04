package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [tickers...]",
	Short: "Run the analysis pipeline",
	Long: `Runs moving averages, support/resistance bands, trend scores,
and post-earnings alignment for every active symbol, persisting one
bundle per symbol. With explicit tickers, analyzes only those.

Example:
  go run ./cmd/scope analyze
  go run ./cmd/scope analyze AAPL NVDA`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	asOf := time.Now().UTC()

	if len(args) > 0 {
		s, err := a.runner.Run(ctx, args, asOf)
		if err != nil {
			return err
		}
		fmt.Printf("analyzed %d symbols (%d failed) in %s\n", s.Total, s.Failed, s.Duration)
		return nil
	}

	s, err := a.runner.RunAll(ctx, asOf)
	if err != nil {
		return err
	}
	fmt.Printf("analyzed %d symbols (%d failed) in %s\n", s.Total, s.Failed, s.Duration)
	return nil
}
