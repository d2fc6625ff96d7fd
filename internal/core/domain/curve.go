package domain

import "strings"

// CurveType identifies one of the published radiocarbon calibration curves.
type CurveType string

const (
	IntCal20 CurveType = "intcal20" // Northern Hemisphere atmospheric
	SHCal20  CurveType = "shcal20"  // Southern Hemisphere atmospheric
	Marine20 CurveType = "marine20" // marine surface reservoir
)

// KnownCurveTypes lists every curve the engine understands, in display order.
var KnownCurveTypes = []CurveType{IntCal20, SHCal20, Marine20}

// ParseCurveType maps a user-supplied name to a CurveType. Matching is
// case-insensitive. The second return value reports whether the name is known.
func ParseCurveType(s string) (CurveType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "intcal20", "intcal":
		return IntCal20, true
	case "shcal20", "shcal":
		return SHCal20, true
	case "marine20", "marine":
		return Marine20, true
	}
	return "", false
}

// CurvePoint is one row of a calibration curve: the expected radiocarbon age
// and its 1-sigma uncertainty at a given calendar age. CalBP and C14BP are
// both in years before 1950.
type CurvePoint struct {
	CalBP float64
	C14BP float64
	Error float64
}

// CalibrationCurve is an ordered sequence of curve points, sorted ascending
// by CalBP and deduplicated by construction. Curves are loaded once by a
// provider and never mutated afterwards, so they are safe to share across
// concurrent calibrations.
type CalibrationCurve []CurvePoint

// MinCalBP returns the calendar age of the first point. The curve must be
// non-empty.
func (c CalibrationCurve) MinCalBP() float64 { return c[0].CalBP }

// MaxCalBP returns the calendar age of the last point. The curve must be
// non-empty.
func (c CalibrationCurve) MaxCalBP() float64 { return c[len(c)-1].CalBP }

// CurveSet maps curve identifiers to loaded curves. A nil or partial set is
// valid; the pipeline reports missing curves per call.
type CurveSet map[CurveType]CalibrationCurve
