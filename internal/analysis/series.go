package analysis

import (
	"fmt"
	"math"

	"github.com/stockscope/backend/internal/contracts"
)

// MovingAverages computes rolling simple moving averages of the close
// column. result[w][i] is the mean of the w closes ending at index i.
// Indices with fewer than w trailing points are NaN, never a partial
// average and never zero; consumers must let that absence propagate.
//
// An empty series yields contracts.ErrNoData. Callers log it and treat
// "no moving averages" as a valid outcome.
func MovingAverages(series *contracts.PriceSeries, windows []int) (map[int][]float64, error) {
	if series.Empty() {
		return nil, contracts.ErrNoData
	}

	closes := series.Closes()

	// Prefix sums make every window O(1) per index.
	prefix := make([]float64, len(closes)+1)
	for i, c := range closes {
		prefix[i+1] = prefix[i] + c
	}

	result := make(map[int][]float64, len(windows))
	for _, w := range windows {
		if w <= 0 {
			return nil, fmt.Errorf("%w: window %d is not positive", contracts.ErrNoData, w)
		}

		ma := make([]float64, len(closes))
		for i := range closes {
			if i+1 < w {
				ma[i] = math.NaN()
				continue
			}
			ma[i] = (prefix[i+1] - prefix[i+1-w]) / float64(w)
		}
		result[w] = ma
	}

	return result, nil
}

// LatestMA returns the most recent value of the w-window average, or nil
// when the window was not computed or its latest value is undefined.
func LatestMA(averages map[int][]float64, w int) *float64 {
	ma, ok := averages[w]
	if !ok || len(ma) == 0 {
		return nil
	}

	v := ma[len(ma)-1]
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
