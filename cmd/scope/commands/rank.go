package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stockscope/backend/internal/ranking"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Print the current ranking",
	Long: `Ranks the latest trend scores and prints the top entries.

Example:
  go run ./cmd/scope rank
  go run ./cmd/scope rank --limit 20`,
	RunE: runRank,
}

var rankLimit int

func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.Flags().IntVar(&rankLimit, "limit", 50, "number of entries to print")
}

func runRank(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	scores, err := a.result.LatestTrendScores(ctx)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		fmt.Println("no trend scores yet; run `scope analyze` first")
		return nil
	}

	ranked := ranking.Top(a.ranker.Rank(ctx, scores), rankLimit)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSYMBOL\tCOMBINED\tPRICE\tVOLUME\tEARNINGS")
	for _, r := range ranked {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
			r.Rank, r.Symbol, r.CombinedScore, r.PriceTrendScore, r.VolumeTrendScore, r.EarningsTrendScore)
	}
	return w.Flush()
}
