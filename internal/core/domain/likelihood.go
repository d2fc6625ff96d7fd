package domain

import "math"

// GaussianLikelihood evaluates the probability density of observing
// measuredAge given a curve point. The measurement and curve uncertainties
// are combined in quadrature and the standard Gaussian density is evaluated
// at the deviation between the two ages. Pure function, no state.
func GaussianLikelihood(measuredAge, measuredError, curveAge, curveError float64) float64 {
	sigma := math.Sqrt(measuredError*measuredError + curveError*curveError)
	deviation := measuredAge - curveAge
	z := deviation / sigma
	return math.Exp(-0.5*z*z) / (sigma * math.Sqrt(2*math.Pi))
}
