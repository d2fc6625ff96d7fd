package domain

import (
	"errors"
	"math"
	"testing"
)

func TestResampleUniform(t *testing.T) {
	curve := CalibrationCurve{
		{CalBP: 0, C14BP: 0, Error: 10},
		{CalBP: 100, C14BP: 100, Error: 10},
	}

	points := ResampleUniform(curve, 10, 20)
	if len(points) != 11 {
		t.Fatalf("lattice length = %d, want 11", len(points))
	}
	if points[0].CalBP != 10 || points[10].CalBP != 20 {
		t.Errorf("lattice spans [%v, %v], want [10, 20]", points[0].CalBP, points[10].CalBP)
	}
	// The source curve is linear, so every resampled point must sit on it.
	for _, p := range points {
		if p.C14BP != p.CalBP {
			t.Errorf("resampled point at %v has c14 %v, want %v", p.CalBP, p.C14BP, p.CalBP)
		}
	}
}

func TestBuildDistributionNormalizes(t *testing.T) {
	curve := linearCurve(10000)

	dist, err := BuildDistribution(curve, 5000, 30, 4000, 6000)
	if err != nil {
		t.Fatalf("BuildDistribution: %v", err)
	}
	if len(dist) != 2001 {
		t.Fatalf("distribution length = %d, want 2001", len(dist))
	}

	sum := 0.0
	for _, p := range dist {
		sum += p.Probability
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("probabilities sum to %v, want 1 within 1e-6", sum)
	}

	for i := 1; i < len(dist); i++ {
		if dist[i].CalBP != dist[i-1].CalBP+1 {
			t.Fatalf("distribution not a 1-year lattice at index %d", i)
		}
	}
}

func TestBuildDistributionPeaksAtMeasurement(t *testing.T) {
	curve := linearCurve(10000)

	dist, err := BuildDistribution(curve, 5000, 30, 4000, 6000)
	if err != nil {
		t.Fatalf("BuildDistribution: %v", err)
	}

	best := dist[0]
	for _, p := range dist {
		if p.Probability > best.Probability {
			best = p
		}
	}
	if best.CalBP != 5000 {
		t.Errorf("peak at %d cal BP, want 5000 (identity curve)", best.CalBP)
	}
}

func TestBuildDistributionEmptyWindow(t *testing.T) {
	curve := linearCurve(100)
	if _, err := BuildDistribution(curve, 50, 10, 60, 40); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty window error = %v, want ErrInvalidInput", err)
	}
}
