package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockscope/backend/internal/contracts"
)

// PriceRepository implements contracts.PriceRepository over PostgreSQL.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetHistory returns the ordered price series for a symbol within the
// date range. The ascending order and duplicate-free dates the analysis
// engine relies on are enforced here by the query and the primary key.
func (r *PriceRepository) GetHistory(ctx context.Context, symbol string, from, to time.Time) (*contracts.PriceSeries, error) {
	query := `
		SELECT trade_date, open, high, low, close, adj_close, volume
		FROM historical_prices
		WHERE symbol = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	series := &contracts.PriceSeries{Symbol: symbol}
	for rows.Next() {
		var p contracts.PricePoint
		if err := rows.Scan(&p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.AdjClose, &p.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}
		series.Points = append(series.Points, p)
	}
	return series, rows.Err()
}

// SaveBatch upserts daily price points for one symbol.
func (r *PriceRepository) SaveBatch(ctx context.Context, symbol string, points []contracts.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	query := `
		INSERT INTO historical_prices (symbol, trade_date, open, high, low, close, adj_close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, trade_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			adj_close = EXCLUDED.adj_close,
			volume = EXCLUDED.volume
	`

	batch := &pgx.Batch{}
	for _, p := range points {
		batch.Queue(query, symbol, p.Date, p.Open, p.High, p.Low, p.Close, p.AdjClose, p.Volume)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range points {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save price point: %w", err)
		}
	}
	return nil
}
