package domain

import (
	"fmt"
	"sort"
)

// Interval is an inclusive range of calendar years, Min <= Max.
type Interval struct {
	Min int
	Max int
}

// Width returns the number of calendar years the interval covers.
func (iv Interval) Width() int { return iv.Max - iv.Min + 1 }

// fallbackConfidence replaces confidence levels outside (0, 1].
const fallbackConfidence = 0.95

// FindHPD extracts the highest-posterior-density region covering the given
// confidence fraction of the distribution's total probability, as an ordered
// set of non-overlapping intervals.
//
// Points are included in decreasing order of probability until the target
// mass is reached, which guarantees every included point has density >= every
// excluded point. Equal probabilities are tied-broken by ascending calendar
// year, so the point included at the threshold boundary is deterministic.
// The total is computed from the input as given, so non-normalized
// distributions are tolerated.
//
// An empty distribution yields nil. A confidence outside (0, 1] is replaced
// with 0.95 and reported through the returned warnings; the call still
// succeeds.
func FindHPD(dist []ProbabilityPoint, confidence float64) ([]Interval, []Warning) {
	if len(dist) == 0 {
		return nil, nil
	}

	var warnings []Warning
	if confidence <= 0 || confidence > 1 {
		warnings = append(warnings, Warning{
			Code:    WarnInvalidConfidence,
			Message: fmt.Sprintf("confidence %v is outside (0, 1], using %v", confidence, fallbackConfidence),
		})
		confidence = fallbackConfidence
	}

	total := 0.0
	for _, p := range dist {
		total += p.Probability
	}

	byDensity := make([]ProbabilityPoint, len(dist))
	copy(byDensity, dist)
	sort.Slice(byDensity, func(i, j int) bool {
		if byDensity[i].Probability != byDensity[j].Probability {
			return byDensity[i].Probability > byDensity[j].Probability
		}
		return byDensity[i].CalBP < byDensity[j].CalBP
	})

	target := confidence * total
	included := make([]int, 0, len(byDensity))
	cumulative := 0.0
	for _, p := range byDensity {
		if cumulative >= target {
			break
		}
		// Zero-density years carry no mass and never belong to an HPD
		// region; skipping them also keeps confidence=1 from sweeping in
		// the flat tails when rounding leaves cumulative a hair short.
		if p.Probability == 0 {
			continue
		}
		included = append(included, p.CalBP)
		cumulative += p.Probability
	}

	sort.Ints(included)

	var intervals []Interval
	for _, year := range included {
		n := len(intervals)
		// A gap of more than one year means a year in between was excluded,
		// so a new interval starts.
		if n == 0 || year-intervals[n-1].Max > 1 {
			intervals = append(intervals, Interval{Min: year, Max: year})
			continue
		}
		intervals[n-1].Max = year
	}
	return intervals, warnings
}

// SpanOf collapses an interval set into the single range from the earliest
// Min to the latest Max, for consumers that only handle one range per
// confidence level. Returns ok=false for an empty set.
func SpanOf(intervals []Interval) (Interval, bool) {
	if len(intervals) == 0 {
		return Interval{}, false
	}
	return Interval{Min: intervals[0].Min, Max: intervals[len(intervals)-1].Max}, true
}
