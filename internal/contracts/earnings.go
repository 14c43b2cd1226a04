package contracts

import "time"

// EarningsEvent represents one earnings announcement as delivered by the
// data provider. The announcement timestamp may be intraday and the input
// sequence carries no ordering guarantee.
type EarningsEvent struct {
	Symbol           string     `json:"symbol"`
	AnnouncementDate time.Time  `json:"announcement_date"`
	PeriodEnding     *time.Time `json:"period_ending,omitempty"`
	ReportedEPS      *float64   `json:"reported_eps,omitempty"`
	EstimatedEPS     *float64   `json:"estimated_eps,omitempty"`
	Surprise         *float64   `json:"surprise,omitempty"`
	SurprisePercent  *float64   `json:"surprise_percent,omitempty"`
}
