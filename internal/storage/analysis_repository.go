package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockscope/backend/internal/contracts"
)

// AnalysisRepository implements contracts.AnalysisRepository over
// PostgreSQL. Every run inserts fresh rows keyed by (symbol, as_of);
// existing rows are never updated, matching the create-only contract of
// the analysis results.
type AnalysisRepository struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepository creates a new analysis repository.
func NewAnalysisRepository(pool *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{pool: pool}
}

// SaveBundle persists whichever sub-results the bundle carries. Absent
// sub-results simply produce no rows.
func (r *AnalysisRepository) SaveBundle(ctx context.Context, bundle *contracts.AnalysisBundle) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if bundle.Bands != nil {
		if err := r.saveBands(ctx, tx, bundle.Bands); err != nil {
			return err
		}
	}
	if bundle.Trend != nil {
		if err := r.saveTrend(ctx, tx, bundle.Trend); err != nil {
			return err
		}
	}
	if bundle.Earnings != nil {
		if err := r.saveEarnings(ctx, tx, bundle.Earnings); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *AnalysisRepository) saveBands(ctx context.Context, tx pgx.Tx, b *contracts.SupportResistanceResult) error {
	query := `
		INSERT INTO support_resistance
			(symbol, as_of, fifty_two_week_high, fifty_two_week_low, ma_20, ma_50, ma_200, resistance, support)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (symbol, as_of) DO NOTHING
	`

	_, err := tx.Exec(ctx, query,
		b.Symbol, b.AsOf, b.FiftyTwoWeekHigh, b.FiftyTwoWeekLow,
		b.MA20, b.MA50, b.MA200, b.Resistance, b.Support,
	)
	if err != nil {
		return fmt.Errorf("failed to save support/resistance: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) saveTrend(ctx context.Context, tx pgx.Tx, t *contracts.TrendScoreResult) error {
	query := `
		INSERT INTO trend_scores
			(symbol, as_of, price_trend_score, volume_trend_score, earnings_trend_score, combined_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (symbol, as_of) DO NOTHING
	`

	_, err := tx.Exec(ctx, query,
		t.Symbol, t.AsOf, t.PriceTrendScore, t.VolumeTrendScore, t.EarningsTrendScore, t.CombinedScore,
	)
	if err != nil {
		return fmt.Errorf("failed to save trend score: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) saveEarnings(ctx context.Context, tx pgx.Tx, e *contracts.EarningsAlignmentResult) error {
	events, err := json.Marshal(e.Events)
	if err != nil {
		return fmt.Errorf("failed to marshal event reactions: %w", err)
	}
	horizons, err := json.Marshal(e.Horizons)
	if err != nil {
		return fmt.Errorf("failed to marshal horizon stats: %w", err)
	}

	query := `
		INSERT INTO earnings_reactions (symbol, as_of, event_count, events, horizons)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (symbol, as_of) DO NOTHING
	`

	if _, err := tx.Exec(ctx, query, e.Symbol, e.AsOf, e.EventCount, events, horizons); err != nil {
		return fmt.Errorf("failed to save earnings reactions: %w", err)
	}
	return nil
}

// LatestTrendScores returns the most recent trend score per symbol.
func (r *AnalysisRepository) LatestTrendScores(ctx context.Context) ([]contracts.TrendScoreResult, error) {
	query := `
		SELECT DISTINCT ON (symbol)
			symbol, as_of, price_trend_score, volume_trend_score, earnings_trend_score, combined_score
		FROM trend_scores
		ORDER BY symbol, as_of DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query trend scores: %w", err)
	}
	defer rows.Close()

	var scores []contracts.TrendScoreResult
	for rows.Next() {
		var t contracts.TrendScoreResult
		if err := rows.Scan(&t.Symbol, &t.AsOf, &t.PriceTrendScore, &t.VolumeTrendScore, &t.EarningsTrendScore, &t.CombinedScore); err != nil {
			return nil, fmt.Errorf("failed to scan trend score row: %w", err)
		}
		scores = append(scores, t)
	}
	return scores, rows.Err()
}

// LatestBundle reassembles the most recent analysis bundle for a symbol.
// Missing sub-results stay nil, mirroring how the bundle was produced.
func (r *AnalysisRepository) LatestBundle(ctx context.Context, symbol string) (*contracts.AnalysisBundle, error) {
	bundle := &contracts.AnalysisBundle{Symbol: symbol}

	bands, err := r.latestBands(ctx, symbol)
	if err != nil {
		return nil, err
	}
	bundle.Bands = bands

	trend, err := r.latestTrend(ctx, symbol)
	if err != nil {
		return nil, err
	}
	bundle.Trend = trend

	earnings, err := r.latestEarnings(ctx, symbol)
	if err != nil {
		return nil, err
	}
	bundle.Earnings = earnings

	switch {
	case bundle.Trend != nil:
		bundle.ComputedAt = bundle.Trend.AsOf
	case bundle.Bands != nil:
		bundle.ComputedAt = bundle.Bands.AsOf
	case bundle.Earnings != nil:
		bundle.ComputedAt = bundle.Earnings.AsOf
	default:
		// Nothing analyzed yet for this symbol.
		return nil, nil
	}

	return bundle, nil
}

func (r *AnalysisRepository) latestBands(ctx context.Context, symbol string) (*contracts.SupportResistanceResult, error) {
	query := `
		SELECT symbol, as_of, fifty_two_week_high, fifty_two_week_low, ma_20, ma_50, ma_200, resistance, support
		FROM support_resistance
		WHERE symbol = $1
		ORDER BY as_of DESC
		LIMIT 1
	`

	var b contracts.SupportResistanceResult
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&b.Symbol, &b.AsOf, &b.FiftyTwoWeekHigh, &b.FiftyTwoWeekLow,
		&b.MA20, &b.MA50, &b.MA200, &b.Resistance, &b.Support,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query support/resistance: %w", err)
	}
	return &b, nil
}

func (r *AnalysisRepository) latestTrend(ctx context.Context, symbol string) (*contracts.TrendScoreResult, error) {
	query := `
		SELECT symbol, as_of, price_trend_score, volume_trend_score, earnings_trend_score, combined_score
		FROM trend_scores
		WHERE symbol = $1
		ORDER BY as_of DESC
		LIMIT 1
	`

	var t contracts.TrendScoreResult
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&t.Symbol, &t.AsOf, &t.PriceTrendScore, &t.VolumeTrendScore, &t.EarningsTrendScore, &t.CombinedScore,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query trend score: %w", err)
	}
	return &t, nil
}

func (r *AnalysisRepository) latestEarnings(ctx context.Context, symbol string) (*contracts.EarningsAlignmentResult, error) {
	query := `
		SELECT symbol, as_of, event_count, events, horizons
		FROM earnings_reactions
		WHERE symbol = $1
		ORDER BY as_of DESC
		LIMIT 1
	`

	var e contracts.EarningsAlignmentResult
	var events, horizons []byte
	err := r.pool.QueryRow(ctx, query, symbol).Scan(&e.Symbol, &e.AsOf, &e.EventCount, &events, &horizons)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query earnings reactions: %w", err)
	}

	if err := json.Unmarshal(events, &e.Events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event reactions: %w", err)
	}
	if err := json.Unmarshal(horizons, &e.Horizons); err != nil {
		return nil, fmt.Errorf("failed to unmarshal horizon stats: %w", err)
	}
	return &e, nil
}
