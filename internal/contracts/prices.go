package contracts

import "time"

// DayFormat is the canonical key format for trading-day lookups.
const DayFormat = "2006-01-02"

// PricePoint represents one trading day of OHLCV data for an instrument.
// Immutable once produced by the collector.
type PricePoint struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose *float64  `json:"adj_close,omitempty"`
	Volume   int64     `json:"volume"`
}

// PriceSeries is the full ordered price history for one instrument.
// Invariant: strictly increasing dates, no duplicates. Gaps are normal;
// the series only contains days the market was open.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// Len returns the number of points in the series.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Empty reports whether the series has no points.
func (s *PriceSeries) Empty() bool {
	return s.Len() == 0
}

// Last returns the most recent point. Callers must check Empty first.
func (s *PriceSeries) Last() PricePoint {
	return s.Points[len(s.Points)-1]
}

// Closes extracts the close column in series order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, s.Len())
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// IndexByDay builds a calendar-day lookup into the series. Keys use
// DayFormat so intraday timestamps collapse onto their trading day.
func (s *PriceSeries) IndexByDay() map[string]int {
	index := make(map[string]int, s.Len())
	for i, p := range s.Points {
		index[p.Date.Format(DayFormat)] = i
	}
	return index
}

// Stock identifies one instrument tracked by the system. Relationships to
// prices, earnings and analysis rows are plain symbol references, never
// embedded object graphs.
type Stock struct {
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name"`
	Sector      string    `json:"sector,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	Country     string    `json:"country,omitempty"`
	MarketCap   float64   `json:"market_cap,omitempty"`
	IsActive    bool      `json:"is_active"`
	LastUpdated time.Time `json:"last_updated"`
}
