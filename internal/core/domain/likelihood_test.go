package domain

import (
	"math"
	"testing"
)

func TestGaussianLikelihoodPeak(t *testing.T) {
	// At zero deviation the density is 1/(sigma*sqrt(2*pi)).
	sigma := 5.0
	want := 1 / (sigma * math.Sqrt(2*math.Pi))

	got := GaussianLikelihood(3000, 3, 3000, 4) // quadrature: sqrt(9+16) = 5
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("peak density = %v, want %v", got, want)
	}
}

func TestGaussianLikelihoodSymmetry(t *testing.T) {
	deviations := []float64{1, 10, 50, 250}
	for _, d := range deviations {
		plus := GaussianLikelihood(3000+d, 30, 3000, 0)
		minus := GaussianLikelihood(3000-d, 30, 3000, 0)
		if math.Abs(plus-minus) > 1e-15 {
			t.Errorf("deviation %v: density not symmetric: %v vs %v", d, plus, minus)
		}
	}
}

func TestGaussianLikelihoodQuadrature(t *testing.T) {
	// Combining errors 3 and 4 must behave exactly like a single error 5.
	combined := GaussianLikelihood(3010, 3, 3000, 4)
	single := GaussianLikelihood(3010, 5, 3000, 0)
	if math.Abs(combined-single) > 1e-15 {
		t.Errorf("quadrature: %v, want %v", combined, single)
	}
}

func TestGaussianLikelihoodDecreasesWithDeviation(t *testing.T) {
	prev := GaussianLikelihood(3000, 30, 3000, 0)
	for _, d := range []float64{10, 30, 60, 120, 300} {
		cur := GaussianLikelihood(3000+d, 30, 3000, 0)
		if cur >= prev {
			t.Errorf("density at deviation %v (%v) not below previous (%v)", d, cur, prev)
		}
		prev = cur
	}
}
