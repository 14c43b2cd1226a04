package contracts

import "errors"

// Error taxonomy for the analysis engine. These never escape the engine's
// public functions; they are logged and converted into absent results.
var (
	// ErrNoData marks missing, empty, or malformed input. Always
	// recoverable; the affected result is simply absent.
	ErrNoData = errors.New("no usable input data")

	// ErrInsufficientHistory marks a series shorter than a requested
	// window. A degraded-but-valid case, not a failure.
	ErrInsufficientHistory = errors.New("insufficient price history")

	// ErrAlignmentFailure marks a single earnings event that could not be
	// anchored to a trading day. Scoped to that event only.
	ErrAlignmentFailure = errors.New("earnings event could not be aligned")
)
