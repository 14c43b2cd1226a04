package ranking

import (
	"context"
	"sort"

	"github.com/stockscope/backend/internal/contracts"
	"github.com/stockscope/backend/pkg/logger"
)

// Ranker orders instruments by combined trend score.
type Ranker struct {
	logger *logger.Logger
}

// NewRanker creates a new ranker.
func NewRanker(log *logger.Logger) *Ranker {
	return &Ranker{logger: log}
}

// Rank sorts trend scores descending by combined score and assigns
// ranks. Ties break by symbol so the order is deterministic. The input
// slice is not modified.
func (r *Ranker) Rank(ctx context.Context, scores []contracts.TrendScoreResult) []contracts.RankedStock {
	ranked := make([]contracts.RankedStock, 0, len(scores))
	for _, s := range scores {
		ranked = append(ranked, contracts.RankedStock{
			Symbol:             s.Symbol,
			AsOf:               s.AsOf,
			CombinedScore:      s.CombinedScore,
			PriceTrendScore:    s.PriceTrendScore,
			VolumeTrendScore:   s.VolumeTrendScore,
			EarningsTrendScore: s.EarningsTrendScore,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CombinedScore != ranked[j].CombinedScore {
			return ranked[i].CombinedScore > ranked[j].CombinedScore
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	if len(ranked) > 0 {
		r.logger.WithFields(map[string]interface{}{
			"count":      len(ranked),
			"top_symbol": ranked[0].Symbol,
			"top_score":  ranked[0].CombinedScore,
		}).Info("Ranking completed")
	}

	return ranked
}

// Top returns the first n entries of a ranked slice.
func Top(ranked []contracts.RankedStock, n int) []contracts.RankedStock {
	if n < 0 || n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
