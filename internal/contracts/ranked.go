package contracts

import "time"

// RankedStock is one row of the ranking table ordered by combined trend
// score.
type RankedStock struct {
	Rank   int       `json:"rank"`
	Symbol string    `json:"symbol"`
	AsOf   time.Time `json:"as_of"`

	CombinedScore      float64 `json:"combined_score"`
	PriceTrendScore    float64 `json:"price_trend_score"`
	VolumeTrendScore   float64 `json:"volume_trend_score"`
	EarningsTrendScore float64 `json:"earnings_trend_score"`
}
