package domain

import "sort"

// Interpolate linearly interpolates the radiocarbon age and its uncertainty
// at targetCalBP between two curve points. When both points share the same
// CalBP the lower point is returned unchanged, avoiding a division by zero.
func Interpolate(targetCalBP float64, lower, upper CurvePoint) CurvePoint {
	if lower.CalBP == upper.CalBP {
		return CurvePoint{CalBP: targetCalBP, C14BP: lower.C14BP, Error: lower.Error}
	}

	factor := (targetCalBP - lower.CalBP) / (upper.CalBP - lower.CalBP)
	return CurvePoint{
		CalBP: targetCalBP,
		C14BP: lower.C14BP + factor*(upper.C14BP-lower.C14BP),
		Error: lower.Error + factor*(upper.Error-lower.Error),
	}
}

// CurveValueAt looks up the radiocarbon age and uncertainty at an arbitrary
// calendar age. Outside the curve's range the first or last point is
// returned unchanged (clamping, no extrapolation). An exact match returns
// that point verbatim; otherwise the immediate neighbors are interpolated.
//
// The curve must be non-empty and sorted ascending by CalBP; that invariant
// is owned by the curve provider, not checked here.
func CurveValueAt(curve CalibrationCurve, calBP float64) CurvePoint {
	if calBP <= curve[0].CalBP {
		return curve[0]
	}
	last := curve[len(curve)-1]
	if calBP >= last.CalBP {
		return last
	}

	// First index whose CalBP is >= the target.
	i := sort.Search(len(curve), func(i int) bool {
		return curve[i].CalBP >= calBP
	})
	if curve[i].CalBP == calBP {
		return curve[i]
	}
	return Interpolate(calBP, curve[i-1], curve[i])
}
