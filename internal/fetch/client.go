package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/stockscope/backend/internal/contracts"
	"github.com/stockscope/backend/pkg/config"
	"github.com/stockscope/backend/pkg/httputil"
	"github.com/stockscope/backend/pkg/logger"
)

// Client retrieves market data from the upstream provider. All requests
// share one rate limiter so batch collection stays polite.
type Client struct {
	http    *httputil.Client
	limiter *rate.Limiter
	cfg     config.FetchConfig
	logger  *logger.Logger
}

// NewClient creates a new market-data client.
func NewClient(cfg config.FetchConfig, log *logger.Logger) *Client {
	return &Client{
		http:    httputil.New(log, cfg.UserAgent),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
		cfg:     cfg,
		logger:  log,
	}
}

// chartResponse mirrors the provider's chart API payload. Null entries
// mark days the provider could not fill; those rows are dropped.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailyHistory retrieves daily OHLCV bars for a symbol. Points come
// back ascending by date with duplicates and null rows removed, ready
// for the analysis engine.
func (c *Client) FetchDailyHistory(ctx context.Context, symbol string, from, to time.Time) ([]contracts.PricePoint, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		"%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div%%2Csplit",
		c.cfg.ChartBaseURL, symbol, from.Unix(), to.Unix(),
	)

	resp, err := c.http.Get(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chart response failed: %w", err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse chart response failed: %w", err)
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s", parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart response for %s has no result", symbol)
	}

	result := parsed.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	var adjClose []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	points := make([]contracts.PricePoint, 0, len(result.Timestamp))
	var lastDay string
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil || quote.Open[i] == nil ||
			quote.High[i] == nil || quote.Low[i] == nil {
			continue
		}

		day := time.Unix(ts, 0).UTC()
		day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

		// The provider occasionally repeats the live bar for today.
		key := day.Format(contracts.DayFormat)
		if key == lastDay {
			continue
		}
		lastDay = key

		p := contracts.PricePoint{
			Date:  day,
			Open:  *quote.Open[i],
			High:  *quote.High[i],
			Low:   *quote.Low[i],
			Close: *quote.Close[i],
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			p.Volume = *quote.Volume[i]
		}
		if i < len(adjClose) && adjClose[i] != nil {
			p.AdjClose = adjClose[i]
		}
		points = append(points, p)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(points),
	}).Debug("Fetched daily history")

	return points, nil
}

// earningsResponse mirrors the provider's earnings history payload.
type earningsResponse struct {
	QuoteSummary struct {
		Result []struct {
			EarningsHistory struct {
				History []struct {
					Quarter struct {
						Raw int64 `json:"raw"`
					} `json:"quarter"`
					EPSActual struct {
						Raw *float64 `json:"raw"`
					} `json:"epsActual"`
					EPSEstimate struct {
						Raw *float64 `json:"raw"`
					} `json:"epsEstimate"`
					EPSDifference struct {
						Raw *float64 `json:"raw"`
					} `json:"epsDifference"`
					SurprisePercent struct {
						Raw *float64 `json:"raw"`
					} `json:"surprisePercent"`
				} `json:"history"`
			} `json:"earningsHistory"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// FetchEarnings retrieves the earnings announcement history for a
// symbol. The provider reports surprise as a fraction; it is converted
// to a percentage here so downstream consumers see one unit.
func (c *Client) FetchEarnings(ctx context.Context, symbol string) ([]contracts.EarningsEvent, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		"%s/v10/finance/quoteSummary/%s?modules=earningsHistory",
		c.cfg.ChartBaseURL, symbol,
	)

	resp, err := c.http.Get(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("earnings request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read earnings response failed: %w", err)
	}

	var parsed earningsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse earnings response failed: %w", err)
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("earnings response for %s has no result", symbol)
	}

	history := parsed.QuoteSummary.Result[0].EarningsHistory.History
	events := make([]contracts.EarningsEvent, 0, len(history))
	for _, h := range history {
		if h.Quarter.Raw == 0 {
			continue
		}

		// The endpoint dates rows by fiscal quarter end, which is the
		// closest announcement proxy it offers.
		quarter := time.Unix(h.Quarter.Raw, 0).UTC()
		e := contracts.EarningsEvent{
			Symbol:           symbol,
			AnnouncementDate: quarter,
			PeriodEnding:     &quarter,
			ReportedEPS:      h.EPSActual.Raw,
			EstimatedEPS:     h.EPSEstimate.Raw,
			Surprise:         h.EPSDifference.Raw,
		}
		if h.SurprisePercent.Raw != nil {
			pct := *h.SurprisePercent.Raw * 100
			e.SurprisePercent = &pct
		}
		events = append(events, e)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(events),
	}).Debug("Fetched earnings history")

	return events, nil
}
