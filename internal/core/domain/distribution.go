package domain

import (
	"fmt"
	"math"
)

// ProbabilityPoint is one year of a calibrated probability distribution.
// Probabilities across one distribution sum to 1 after normalization.
type ProbabilityPoint struct {
	CalBP       int
	Probability float64
}

// ResampleUniform materializes the curve at 1-year resolution over the
// inclusive [startYear, endYear] window. Likelihood evaluation and HPD
// extraction both operate on this uniform lattice, which keeps interval
// boundaries well-defined integers even when the source curve is tabulated
// at 5- or 10-year steps.
func ResampleUniform(curve CalibrationCurve, startYear, endYear int) []CurvePoint {
	points := make([]CurvePoint, 0, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		points = append(points, CurveValueAt(curve, float64(year)))
	}
	return points
}

// BuildDistribution evaluates the Gaussian likelihood of the corrected age
// at every year of the window and normalizes the densities into a discrete
// probability distribution (implicit 1-year bin width), sorted ascending by
// calendar year.
//
// The result only approximates the true posterior when the window captures
// the bulk of the likelihood mass; choosing a wide enough window is
// SelectRange's job.
func BuildDistribution(curve CalibrationCurve, correctedAge, uncertainty float64, startYear, endYear int) ([]ProbabilityPoint, error) {
	if endYear < startYear {
		return nil, fmt.Errorf("%w: evaluation window [%d, %d] is empty", ErrInvalidInput, startYear, endYear)
	}

	lattice := ResampleUniform(curve, startYear, endYear)

	dist := make([]ProbabilityPoint, len(lattice))
	total := 0.0
	for i, p := range lattice {
		density := GaussianLikelihood(correctedAge, uncertainty, p.C14BP, p.Error)
		dist[i] = ProbabilityPoint{CalBP: startYear + i, Probability: density}
		total += density
	}

	if total == 0 || math.IsNaN(total) {
		return nil, fmt.Errorf("%w: no likelihood mass in window [%d, %d]", ErrInvalidInput, startYear, endYear)
	}

	for i := range dist {
		dist[i].Probability /= total
	}
	return dist, nil
}
