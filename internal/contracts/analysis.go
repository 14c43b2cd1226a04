package contracts

import "time"

// SupportResistanceResult holds the 52-week band and interpolated
// support/resistance levels for one instrument. Produced fresh each run
// and never mutated afterward.
type SupportResistanceResult struct {
	Symbol string    `json:"symbol"`
	AsOf   time.Time `json:"as_of"`

	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64 `json:"fifty_two_week_low"`

	// Latest moving average values. Nil when the series is shorter than
	// the window; absence propagates, it is never collapsed to zero.
	MA20  *float64 `json:"ma_20,omitempty"`
	MA50  *float64 `json:"ma_50,omitempty"`
	MA200 *float64 `json:"ma_200,omitempty"`

	// Resistance levels sorted ascending, support levels sorted
	// descending, so index 0 is always nearest the current price.
	Resistance []float64 `json:"resistance"`
	Support    []float64 `json:"support"`
}

// TrendScoreResult holds the momentum sub-scores and the combined score
// used for ranking.
type TrendScoreResult struct {
	Symbol string    `json:"symbol"`
	AsOf   time.Time `json:"as_of"`

	PriceTrendScore    float64 `json:"price_trend_score"`
	VolumeTrendScore   float64 `json:"volume_trend_score"`
	EarningsTrendScore float64 `json:"earnings_trend_score"`
	CombinedScore      float64 `json:"combined_score"`
}

// EventReaction is the per-event row of the earnings alignment table:
// one announcement mapped onto its anchor trading day with forward
// returns at each horizon. A nil return means the horizon could not be
// resolved within its search bound.
type EventReaction struct {
	AnnouncementDate time.Time        `json:"announcement_date"`
	AnchorDate       time.Time        `json:"anchor_date"`
	SurprisePercent  *float64         `json:"surprise_percent,omitempty"`
	ForwardReturns   map[int]*float64 `json:"forward_returns"`
}

// HorizonStats aggregates forward returns for one horizon across all
// anchored events. Any field may be absent when too few events qualify.
type HorizonStats struct {
	MeanReturn                *float64 `json:"mean_return,omitempty"`
	MeanAfterPositiveSurprise *float64 `json:"mean_after_positive_surprise,omitempty"`
	MeanAfterNegativeSurprise *float64 `json:"mean_after_negative_surprise,omitempty"`
	SurpriseCorrelation       *float64 `json:"surprise_correlation,omitempty"`
}

// EarningsAlignmentResult maps earnings announcements to post-announcement
// price behavior.
type EarningsAlignmentResult struct {
	Symbol string    `json:"symbol"`
	AsOf   time.Time `json:"as_of"`

	Events   []EventReaction      `json:"events"`
	Horizons map[int]HorizonStats `json:"horizons"`

	// EventCount is the number of events that anchored to a trading day
	// and therefore appear in Events.
	EventCount int `json:"event_count"`
}

// AnalysisBundle is the unit handed to the persistence layer after one
// instrument has been analyzed. Any sub-result may be nil when its inputs
// were absent or insufficient; a partial bundle is a normal outcome.
type AnalysisBundle struct {
	Symbol     string    `json:"symbol"`
	ComputedAt time.Time `json:"computed_at"`

	Bands    *SupportResistanceResult `json:"bands,omitempty"`
	Trend    *TrendScoreResult        `json:"trend,omitempty"`
	Earnings *EarningsAlignmentResult `json:"earnings,omitempty"`
}

// Complete reports whether every sub-result is present.
func (b *AnalysisBundle) Complete() bool {
	return b.Bands != nil && b.Trend != nil && b.Earnings != nil
}
