package domain

import (
	"math"
	"sort"
	"strings"
)

// SearchMode selects how the calendar-year window to evaluate is chosen.
type SearchMode string

const (
	// SearchC14 binary-searches the curve along the radiocarbon axis for a
	// +/- 5 sigma band around the corrected age. Recommended default: a
	// Gaussian beyond 5 sigma contributes negligible probability mass, so
	// the window bounds computation without affecting the HPD result.
	SearchC14 SearchMode = "c14_bp"
	// SearchFullCurve evaluates the curve's entire calendar extent.
	SearchFullCurve SearchMode = "full_curve"
	// SearchFixedRange evaluates the literal window [0, 12000]. Legacy
	// default, kept for reproducing old batch runs.
	SearchFixedRange SearchMode = "fixed_range"
)

// rangePadYears absorbs interpolation edge effects around the 5-sigma band.
const rangePadYears = 500

// ParseSearchMode maps a user-supplied name to a SearchMode. An empty string
// selects SearchC14. The second return value reports whether the name is
// known.
func ParseSearchMode(s string) (SearchMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "c14_bp", "c14":
		return SearchC14, true
	case "full_curve", "full":
		return SearchFullCurve, true
	case "fixed_range", "fixed":
		return SearchFixedRange, true
	}
	return "", false
}

// SelectRange determines the inclusive [minCalBP, maxCalBP] window to
// evaluate for a corrected radiocarbon age. Whatever the mode, the result is
// clamped to the calendar extent of the supplied curve. The curve must be
// non-empty and sorted ascending by CalBP.
func SelectRange(curve CalibrationCurve, correctedAge, uncertainty float64, mode SearchMode) (minCalBP, maxCalBP float64) {
	switch mode {
	case SearchFullCurve:
		minCalBP, maxCalBP = curve.MinCalBP(), curve.MaxCalBP()
	case SearchFixedRange:
		minCalBP, maxCalBP = 0, 12000
	default:
		minCalBP, maxCalBP = c14BandRange(curve, correctedAge, uncertainty)
	}

	// Never evaluate outside the curve itself.
	minCalBP = math.Max(minCalBP, curve.MinCalBP())
	maxCalBP = math.Min(maxCalBP, curve.MaxCalBP())
	return minCalBP, maxCalBP
}

// c14BandRange finds the calendar span whose radiocarbon ages fall within
// 5 sigma of the corrected age, padded on both sides. The curve is re-sorted
// by C14BP for the search; calibration curves wiggle, so a radiocarbon band
// can map to a wide, non-contiguous calendar span and the full min/max over
// the matched points is taken.
func c14BandRange(curve CalibrationCurve, correctedAge, uncertainty float64) (float64, float64) {
	byC14 := make(CalibrationCurve, len(curve))
	copy(byC14, curve)
	sort.Slice(byC14, func(i, j int) bool { return byC14[i].C14BP < byC14[j].C14BP })

	low := correctedAge - 5*uncertainty
	high := correctedAge + 5*uncertainty

	lo := sort.Search(len(byC14), func(i int) bool { return byC14[i].C14BP >= low })
	hi := sort.Search(len(byC14), func(i int) bool { return byC14[i].C14BP > high })

	// Band misses every tabulated point: widen to the bracketing neighbors
	// so interpolation still has something to work with.
	if lo >= hi {
		if lo > 0 {
			lo--
		}
		if hi < len(byC14) {
			hi++
		}
	}

	minCal, maxCal := byC14[lo].CalBP, byC14[lo].CalBP
	for _, p := range byC14[lo:hi] {
		if p.CalBP < minCal {
			minCal = p.CalBP
		}
		if p.CalBP > maxCal {
			maxCal = p.CalBP
		}
	}

	minCal -= rangePadYears
	maxCal += rangePadYears
	if minCal < 0 {
		minCal = 0
	}
	return minCal, maxCal
}
