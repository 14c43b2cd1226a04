package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var collectCmd = &cobra.Command{
	Use:   "collect [tickers...]",
	Short: "Collect market data",
	Long: `Refreshes the instrument universe and collects daily price
history and earnings for every active symbol. With explicit tickers,
collects only those and skips the universe refresh.

Example:
  go run ./cmd/scope collect
  go run ./cmd/scope collect AAPL MSFT`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	asOf := time.Now().UTC()

	if len(args) > 0 {
		for _, ticker := range args {
			if err := a.collector.CollectSymbol(ctx, ticker, asOf); err != nil {
				return err
			}
			fmt.Printf("collected %s\n", ticker)
		}
		return nil
	}

	count, err := a.collector.RefreshUniverse(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("universe: %d symbols\n", count)

	return a.collector.CollectAll(ctx, asOf)
}
