package domain

import "errors"

// Fatal error kinds. All are matched with errors.Is; wrapped messages name
// the offending value or curve.
var (
	// ErrInvalidInput marks out-of-range or non-finite calibration input.
	ErrInvalidInput = errors.New("invalid calibration input")

	// ErrMissingCurveData marks a requested curve that is absent or empty
	// after loading. Calibration never fabricates curve data.
	ErrMissingCurveData = errors.New("missing calibration curve data")

	// ErrCurveLoad wraps failures propagated from a curve data provider.
	ErrCurveLoad = errors.New("calibration curve load failed")
)

// Warning codes for the non-fatal diagnostics returned alongside results.
const (
	WarnUnknownCurveType  = "unknown_curve_type"
	WarnInvalidConfidence = "invalid_confidence"
)

// Warning is a structured non-fatal diagnostic. The core never logs or
// prints; callers decide how to surface warnings.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
