package domain

import (
	"testing"
)

// syntheticDist is the 5-point distribution used across the HPD tests.
func syntheticDist() []ProbabilityPoint {
	return []ProbabilityPoint{
		{CalBP: 100, Probability: 0.1},
		{CalBP: 101, Probability: 0.2},
		{CalBP: 102, Probability: 0.4},
		{CalBP: 103, Probability: 0.2},
		{CalBP: 104, Probability: 0.1},
	}
}

func TestFindHPDEmpty(t *testing.T) {
	intervals, warnings := FindHPD(nil, 0.95)
	if intervals != nil || warnings != nil {
		t.Errorf("empty distribution: got (%v, %v), want (nil, nil)", intervals, warnings)
	}
}

func TestFindHPDSynthetic(t *testing.T) {
	intervals, warnings := FindHPD(syntheticDist(), 0.6)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(intervals) != 1 {
		t.Fatalf("got %d intervals, want 1: %v", len(intervals), intervals)
	}
	if intervals[0].Min != 101 {
		t.Errorf("interval min = %d, want 101", intervals[0].Min)
	}
	if intervals[0].Max != 102 && intervals[0].Max != 103 {
		t.Errorf("interval max = %d, want 102 or 103", intervals[0].Max)
	}
}

func TestFindHPDFullCoverage(t *testing.T) {
	intervals, _ := FindHPD(syntheticDist(), 1.0)
	want := Interval{Min: 100, Max: 104}
	if len(intervals) != 1 || intervals[0] != want {
		t.Errorf("confidence 1.0: got %v, want [%v]", intervals, want)
	}
}

func TestFindHPDIgnoresZeroProbabilityTails(t *testing.T) {
	dist := append([]ProbabilityPoint{{CalBP: 90, Probability: 0}}, syntheticDist()...)
	dist = append(dist, ProbabilityPoint{CalBP: 110, Probability: 0})

	intervals, _ := FindHPD(dist, 1.0)
	want := Interval{Min: 100, Max: 104}
	if len(intervals) != 1 || intervals[0] != want {
		t.Errorf("zero tails: got %v, want [%v]", intervals, want)
	}
}

func TestFindHPDSplitsAcrossGaps(t *testing.T) {
	// Two density humps separated by a dead year must yield two intervals.
	dist := []ProbabilityPoint{
		{CalBP: 100, Probability: 0.3},
		{CalBP: 101, Probability: 0.3},
		{CalBP: 102, Probability: 0.001},
		{CalBP: 103, Probability: 0.2},
		{CalBP: 104, Probability: 0.199},
	}

	intervals, _ := FindHPD(dist, 0.9)
	if len(intervals) != 2 {
		t.Fatalf("got %d intervals, want 2: %v", len(intervals), intervals)
	}
	if (intervals[0] != Interval{Min: 100, Max: 101}) {
		t.Errorf("first interval = %v, want [100, 101]", intervals[0])
	}
	if (intervals[1] != Interval{Min: 103, Max: 104}) {
		t.Errorf("second interval = %v, want [103, 104]", intervals[1])
	}
}

func TestFindHPDMonotoneWidth(t *testing.T) {
	// Increasing confidence never narrows the total covered width.
	dist := syntheticDist()
	prevWidth := 0
	for _, confidence := range []float64{0.2, 0.4, 0.6, 0.8, 0.954, 1.0} {
		intervals, _ := FindHPD(dist, confidence)
		width := 0
		for _, iv := range intervals {
			width += iv.Width()
		}
		if width < prevWidth {
			t.Errorf("confidence %v: width %d below previous %d", confidence, width, prevWidth)
		}
		prevWidth = width
	}
}

func TestFindHPDDensityProperty(t *testing.T) {
	// Every included year must be at least as probable as every excluded
	// year; that is what makes the region highest-density.
	dist := []ProbabilityPoint{
		{CalBP: 200, Probability: 0.05},
		{CalBP: 201, Probability: 0.25},
		{CalBP: 202, Probability: 0.10},
		{CalBP: 203, Probability: 0.30},
		{CalBP: 204, Probability: 0.20},
		{CalBP: 205, Probability: 0.10},
	}

	intervals, _ := FindHPD(dist, 0.7)
	inRegion := func(year int) bool {
		for _, iv := range intervals {
			if year >= iv.Min && year <= iv.Max {
				return true
			}
		}
		return false
	}

	minIncluded, maxExcluded := 1.0, 0.0
	for _, p := range dist {
		if inRegion(p.CalBP) {
			if p.Probability < minIncluded {
				minIncluded = p.Probability
			}
		} else if p.Probability > maxExcluded {
			maxExcluded = p.Probability
		}
	}
	if minIncluded < maxExcluded {
		t.Errorf("included density %v below excluded density %v", minIncluded, maxExcluded)
	}
}

func TestFindHPDUnnormalizedInput(t *testing.T) {
	// Totals are computed from the input, so scaling every probability by a
	// constant must not change the region.
	dist := syntheticDist()
	scaled := make([]ProbabilityPoint, len(dist))
	for i, p := range dist {
		scaled[i] = ProbabilityPoint{CalBP: p.CalBP, Probability: p.Probability * 37}
	}

	got, _ := FindHPD(scaled, 0.6)
	want, _ := FindHPD(dist, 0.6)
	if len(got) != len(want) {
		t.Fatalf("scaled input: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("scaled input: interval %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFindHPDInvalidConfidence(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
	}{
		{"zero", 0},
		{"negative", -0.5},
		{"above one", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intervals, warnings := FindHPD(syntheticDist(), tt.confidence)
			if len(warnings) != 1 || warnings[0].Code != WarnInvalidConfidence {
				t.Fatalf("warnings = %v, want one %s", warnings, WarnInvalidConfidence)
			}
			want, _ := FindHPD(syntheticDist(), 0.95)
			if len(intervals) != len(want) {
				t.Errorf("fallback region %v differs from explicit 0.95 region %v", intervals, want)
			}
		})
	}
}

func TestSpanOf(t *testing.T) {
	if _, ok := SpanOf(nil); ok {
		t.Error("SpanOf(nil) reported ok")
	}

	span, ok := SpanOf([]Interval{{Min: 100, Max: 120}, {Min: 150, Max: 160}})
	if !ok || span.Min != 100 || span.Max != 160 {
		t.Errorf("SpanOf = (%v, %v), want ({100 160}, true)", span, ok)
	}
}
