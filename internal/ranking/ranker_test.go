package ranking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockscope/backend/internal/contracts"
	"github.com/stockscope/backend/pkg/logger"
)

func TestRank(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	scores := []contracts.TrendScoreResult{
		{Symbol: "MID", AsOf: asOf, CombinedScore: 5.0},
		{Symbol: "TOP", AsOf: asOf, CombinedScore: 12.5},
		{Symbol: "LOW", AsOf: asOf, CombinedScore: -3.2},
	}

	ranker := NewRanker(logger.NewNop())
	ranked := ranker.Rank(context.Background(), scores)

	require.Len(t, ranked, 3)
	assert.Equal(t, "TOP", ranked[0].Symbol)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "MID", ranked[1].Symbol)
	assert.Equal(t, "LOW", ranked[2].Symbol)
	assert.Equal(t, 3, ranked[2].Rank)

	// Input order untouched.
	assert.Equal(t, "MID", scores[0].Symbol)
}

func TestRankTieBreaksBySymbol(t *testing.T) {
	scores := []contracts.TrendScoreResult{
		{Symbol: "BBB", CombinedScore: 1.0},
		{Symbol: "AAA", CombinedScore: 1.0},
	}

	ranker := NewRanker(logger.NewNop())
	ranked := ranker.Rank(context.Background(), scores)

	require.Len(t, ranked, 2)
	assert.Equal(t, "AAA", ranked[0].Symbol)
	assert.Equal(t, "BBB", ranked[1].Symbol)
}

func TestTop(t *testing.T) {
	ranked := []contracts.RankedStock{{Rank: 1}, {Rank: 2}, {Rank: 3}}

	assert.Len(t, Top(ranked, 2), 2)
	assert.Len(t, Top(ranked, 10), 3)
	assert.Len(t, Top(ranked, -1), 3)
	assert.Empty(t, Top(ranked, 0))
}
