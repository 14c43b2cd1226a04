package analysis

import "math"

// mean returns the arithmetic mean of xs. Callers guard against empty
// input.
func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// meanPtr returns the mean of xs, or nil when xs is empty.
func meanPtr(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	m := mean(xs)
	return &m
}

// pearson returns the Pearson correlation coefficient between xs and ys,
// or nil when fewer than two pairs exist or either side has zero
// variance. Slices must have equal length.
func pearson(xs, ys []float64) *float64 {
	if len(xs) < 2 || len(xs) != len(ys) {
		return nil
	}

	mx := mean(xs)
	my := mean(ys)

	var cov, vx, vy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}

	if vx == 0 || vy == 0 {
		return nil
	}

	r := cov / math.Sqrt(vx*vy)
	return &r
}
