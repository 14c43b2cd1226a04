package contracts

import (
	"context"
	"time"
)

// StockRepository stores the instrument universe.
type StockRepository interface {
	List(ctx context.Context, activeOnly bool) ([]Stock, error)
	Get(ctx context.Context, symbol string) (*Stock, error)
	Upsert(ctx context.Context, stock *Stock) error
}

// PriceRepository stores daily price history.
type PriceRepository interface {
	GetHistory(ctx context.Context, symbol string, from, to time.Time) (*PriceSeries, error)
	SaveBatch(ctx context.Context, symbol string, points []PricePoint) error
}

// EarningsRepository stores earnings announcements.
type EarningsRepository interface {
	GetBySymbol(ctx context.Context, symbol string) ([]EarningsEvent, error)
	SaveBatch(ctx context.Context, events []EarningsEvent) error
}

// AnalysisRepository persists analysis results. Each run inserts fresh
// rows; results are never updated in place.
type AnalysisRepository interface {
	SaveBundle(ctx context.Context, bundle *AnalysisBundle) error
	LatestTrendScores(ctx context.Context) ([]TrendScoreResult, error)
	LatestBundle(ctx context.Context, symbol string) (*AnalysisBundle, error)
}
