package analysis

import (
	"context"
	"sort"
	"time"

	"github.com/stockscope/backend/internal/contracts"
	"github.com/stockscope/backend/pkg/logger"
)

// Calendar-day search bounds for the alignment walk. Both are hard
// limits encoding "give up after roughly a trading week of search"; they
// are intentionally not configurable.
const (
	// anchorSearchDays bounds the scan from an announcement to the first
	// trading day at or after it.
	anchorSearchDays = 3

	// horizonSlackDays is the calendar slack added to each horizon: the
	// forward scan for an h trading-day return may look at most h+slack
	// calendar days past the announcement.
	horizonSlackDays = 5
)

// AlignmentWalker maps earnings announcements onto actual trading days
// and measures forward price moves. Announcement timestamps rarely land
// on a recorded trading day, and "N days later" always means N trading
// days, so the walker steps calendar day by calendar day and counts only
// days present in the series.
type AlignmentWalker struct {
	logger *logger.Logger
}

// NewAlignmentWalker creates a new alignment walker.
func NewAlignmentWalker(log *logger.Logger) *AlignmentWalker {
	return &AlignmentWalker{logger: log}
}

// Compute aligns each announcement to its anchor trading day, computes
// forward returns at each horizon and aggregates them. Events that fail
// to anchor within the search bound are dropped entirely; a horizon that
// cannot be resolved is left absent for that event but the event still
// contributes to the other horizons. Returns nil when there are no
// events or no price data.
func (w *AlignmentWalker) Compute(ctx context.Context, series *contracts.PriceSeries, events []contracts.EarningsEvent, horizons []int, asOf time.Time) *contracts.EarningsAlignmentResult {
	if len(events) == 0 || series.Empty() {
		w.logger.WithField("symbol", seriesSymbol(series)).Debug("No earnings events to align")
		return nil
	}

	index := series.IndexByDay()

	// Provider order is not guaranteed; walk a date-sorted copy so the
	// per-event table is deterministic.
	sorted := make([]contracts.EarningsEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].AnnouncementDate.Before(sorted[j].AnnouncementDate)
	})

	reactions := make([]contracts.EventReaction, 0, len(sorted))
	for _, event := range sorted {
		reaction, ok := w.alignEvent(series, index, event, horizons)
		if !ok {
			w.logger.WithError(contracts.ErrAlignmentFailure).WithFields(map[string]interface{}{
				"symbol":       series.Symbol,
				"announcement": event.AnnouncementDate.Format(contracts.DayFormat),
			}).Debug("Earnings event skipped, no trading day within anchor bound")
			continue
		}
		reactions = append(reactions, reaction)
	}

	result := &contracts.EarningsAlignmentResult{
		Symbol:     series.Symbol,
		AsOf:       asOf,
		Events:     reactions,
		Horizons:   make(map[int]contracts.HorizonStats, len(horizons)),
		EventCount: len(reactions),
	}

	for _, h := range horizons {
		result.Horizons[h] = aggregateHorizon(reactions, h)
	}

	w.logger.WithFields(map[string]interface{}{
		"symbol":   series.Symbol,
		"events":   len(sorted),
		"anchored": len(reactions),
	}).Debug("Aligned earnings events")

	return result
}

// alignEvent anchors one announcement and computes its forward returns.
// Reports false when no trading day exists within the anchor bound.
func (w *AlignmentWalker) alignEvent(series *contracts.PriceSeries, index map[string]int, event contracts.EarningsEvent, horizons []int) (contracts.EventReaction, bool) {
	day := truncateToDay(event.AnnouncementDate)

	// Anchor: the announcement day itself or the next trading day, at
	// most anchorSearchDays calendar days out.
	anchorIdx := -1
	var anchorDay time.Time
	for offset := 0; offset <= anchorSearchDays; offset++ {
		candidate := day.AddDate(0, 0, offset)
		if idx, ok := index[candidate.Format(contracts.DayFormat)]; ok {
			anchorIdx = idx
			anchorDay = candidate
			break
		}
	}
	if anchorIdx < 0 {
		return contracts.EventReaction{}, false
	}

	reaction := contracts.EventReaction{
		AnnouncementDate: event.AnnouncementDate,
		AnchorDate:       series.Points[anchorIdx].Date,
		SurprisePercent:  event.SurprisePercent,
		ForwardReturns:   make(map[int]*float64, len(horizons)),
	}

	anchorClose := series.Points[anchorIdx].Close
	for _, h := range horizons {
		reaction.ForwardReturns[h] = w.forwardReturn(series, index, day, anchorDay, anchorClose, h)
	}

	return reaction, true
}

// forwardReturn walks forward from the anchor day counting trading days
// until h have passed, bounded at h+horizonSlackDays calendar days past
// the announcement. Returns nil when the bound is hit first; an
// unresolved horizon is absent, never zero.
func (w *AlignmentWalker) forwardReturn(series *contracts.PriceSeries, index map[string]int, announceDay, anchorDay time.Time, anchorClose float64, h int) *float64 {
	if h <= 0 || anchorClose == 0 {
		return nil
	}

	bound := announceDay.AddDate(0, 0, h+horizonSlackDays)

	counted := 0
	for candidate := anchorDay.AddDate(0, 0, 1); !candidate.After(bound); candidate = candidate.AddDate(0, 0, 1) {
		idx, ok := index[candidate.Format(contracts.DayFormat)]
		if !ok {
			continue
		}
		counted++
		if counted == h {
			ret := (series.Points[idx].Close - anchorClose) / anchorClose * 100
			return &ret
		}
	}

	return nil
}

// aggregateHorizon computes the mean forward return at one horizon, the
// positive/negative surprise splits, and the surprise correlation.
// Events with a surprise of exactly zero belong to neither split.
func aggregateHorizon(reactions []contracts.EventReaction, h int) contracts.HorizonStats {
	var all, afterPositive, afterNegative []float64
	var pairedSurprises, pairedReturns []float64

	for _, r := range reactions {
		ret := r.ForwardReturns[h]
		if ret == nil {
			continue
		}
		all = append(all, *ret)

		if r.SurprisePercent == nil {
			continue
		}
		switch {
		case *r.SurprisePercent > 0:
			afterPositive = append(afterPositive, *ret)
		case *r.SurprisePercent < 0:
			afterNegative = append(afterNegative, *ret)
		}
		pairedSurprises = append(pairedSurprises, *r.SurprisePercent)
		pairedReturns = append(pairedReturns, *ret)
	}

	return contracts.HorizonStats{
		MeanReturn:                meanPtr(all),
		MeanAfterPositiveSurprise: meanPtr(afterPositive),
		MeanAfterNegativeSurprise: meanPtr(afterNegative),
		SurpriseCorrelation:       pearson(pairedSurprises, pairedReturns),
	}
}

// truncateToDay drops the intraday portion of a timestamp, in UTC.
func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
