package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockscope/backend/internal/contracts"
)

// EarningsRepository implements contracts.EarningsRepository over
// PostgreSQL.
type EarningsRepository struct {
	pool *pgxpool.Pool
}

// NewEarningsRepository creates a new earnings repository.
func NewEarningsRepository(pool *pgxpool.Pool) *EarningsRepository {
	return &EarningsRepository{pool: pool}
}

// GetBySymbol returns every stored earnings event for a symbol. No sort
// order is promised; consumers order events themselves.
func (r *EarningsRepository) GetBySymbol(ctx context.Context, symbol string) ([]contracts.EarningsEvent, error) {
	query := `
		SELECT symbol, announcement_date, period_ending, reported_eps, estimated_eps, surprise, surprise_percent
		FROM earnings
		WHERE symbol = $1
	`

	rows, err := r.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query earnings: %w", err)
	}
	defer rows.Close()

	var events []contracts.EarningsEvent
	for rows.Next() {
		var e contracts.EarningsEvent
		if err := rows.Scan(&e.Symbol, &e.AnnouncementDate, &e.PeriodEnding, &e.ReportedEPS, &e.EstimatedEPS, &e.Surprise, &e.SurprisePercent); err != nil {
			return nil, fmt.Errorf("failed to scan earnings row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// SaveBatch upserts earnings events keyed by symbol and announcement.
func (r *EarningsRepository) SaveBatch(ctx context.Context, events []contracts.EarningsEvent) error {
	if len(events) == 0 {
		return nil
	}

	query := `
		INSERT INTO earnings (symbol, announcement_date, period_ending, reported_eps, estimated_eps, surprise, surprise_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, announcement_date) DO UPDATE SET
			period_ending = EXCLUDED.period_ending,
			reported_eps = EXCLUDED.reported_eps,
			estimated_eps = EXCLUDED.estimated_eps,
			surprise = EXCLUDED.surprise,
			surprise_percent = EXCLUDED.surprise_percent
	`

	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(query, e.Symbol, e.AnnouncementDate, e.PeriodEnding, e.ReportedEPS, e.EstimatedEPS, e.Surprise, e.SurprisePercent)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range events {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save earnings event: %w", err)
		}
	}
	return nil
}
