package ports

import (
	"context"

	"github.com/chronolab/carbondate/internal/core/domain"
)

// CurveProvider supplies loaded calibration curves to the pipeline. LoadCurves
// is idempotent: implementations cache the parsed set and later calls return
// it without re-reading the source. Curves returns nil until a load has
// succeeded, and callers must load (and fail the calibration on load error)
// rather than proceed without data.
type CurveProvider interface {
	LoadCurves(ctx context.Context) (domain.CurveSet, error)
	Curves() domain.CurveSet
}
