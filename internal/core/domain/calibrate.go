package domain

import (
	"fmt"
	"math"
)

// Confidence levels reported by every calibration: the conventional 1- and
// 2-sigma coverages.
const (
	Confidence68 = 0.682
	Confidence95 = 0.954
)

// maxC14Age bounds plausible radiocarbon measurements; beyond ~50k BP the
// method itself stops working, 100k leaves generous slack.
const maxC14Age = 100000

// CalibrationInput is one calibration request. CurveType and SearchMode may
// be zero-valued; defaults are IntCal20 and SearchC14.
type CalibrationInput struct {
	C14Age              float64    `json:"c14_age"`
	Uncertainty         float64    `json:"uncertainty"`
	ReservoirCorrection float64    `json:"reservoir_correction"`
	CurveType           CurveType  `json:"curve"`
	SearchMode          SearchMode `json:"search_mode"`
}

// CalibrationResult is the complete outcome of one calibration call,
// immutable once returned. Range68/Range95 collapse each interval set to a
// single span for legacy single-range consumers. The distribution is sorted
// ascending by calendar year and sums to 1.
type CalibrationResult struct {
	Input        CalibrationInput   `json:"input"`
	ModeCalBP    int                `json:"mode_cal_bp"`
	HPD68        []Interval         `json:"hpd68"`
	HPD95        []Interval         `json:"hpd95"`
	Range68      Interval           `json:"range68"`
	Range95      Interval           `json:"range95"`
	Distribution []ProbabilityPoint `json:"distribution,omitempty"`
	Warnings     []Warning          `json:"warnings,omitempty"`
}

// CalibrateDate converts a radiocarbon measurement into a calendar-age
// probability distribution and its summary statistics.
//
// Validation failures and missing curve data abort the call with no partial
// result. An unknown curve type does not: the source tooling's behavior of
// substituting IntCal20 is kept, surfaced as a structured warning instead of
// console text, so legacy batch files that omit or misspell the curve column
// keep calibrating.
//
// The curve set is read-only; concurrent calls over the same set are safe.
func CalibrateDate(curves CurveSet, in CalibrationInput) (*CalibrationResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var warnings []Warning
	curveType := in.CurveType
	if curveType == "" {
		curveType = IntCal20
	} else if !knownCurveType(curveType) {
		warnings = append(warnings, Warning{
			Code:    WarnUnknownCurveType,
			Message: fmt.Sprintf("unknown curve type %q, using %s", string(in.CurveType), IntCal20),
		})
		curveType = IntCal20
	}

	curve, ok := curves[curveType]
	if !ok || len(curve) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingCurveData, curveType)
	}

	correctedAge := in.C14Age - in.ReservoirCorrection

	minCal, maxCal := SelectRange(curve, correctedAge, in.Uncertainty, in.SearchMode)
	startYear := int(math.Floor(minCal))
	endYear := int(math.Ceil(maxCal))

	dist, err := BuildDistribution(curve, correctedAge, in.Uncertainty, startYear, endYear)
	if err != nil {
		return nil, err
	}

	hpd68, w := FindHPD(dist, Confidence68)
	warnings = append(warnings, w...)
	hpd95, w := FindHPD(dist, Confidence95)
	warnings = append(warnings, w...)

	result := &CalibrationResult{
		Input:        in,
		ModeCalBP:    modeOf(dist),
		HPD68:        hpd68,
		HPD95:        hpd95,
		Distribution: dist,
		Warnings:     warnings,
	}
	result.Range68, _ = SpanOf(hpd68)
	result.Range95, _ = SpanOf(hpd95)
	return result, nil
}

func validateInput(in CalibrationInput) error {
	switch {
	case math.IsNaN(in.C14Age) || math.IsInf(in.C14Age, 0):
		return fmt.Errorf("%w: c14 age %v is not a finite number", ErrInvalidInput, in.C14Age)
	case in.C14Age < 0 || in.C14Age > maxC14Age:
		return fmt.Errorf("%w: c14 age %v is outside [0, %d]", ErrInvalidInput, in.C14Age, maxC14Age)
	case math.IsNaN(in.Uncertainty) || math.IsInf(in.Uncertainty, 0) || in.Uncertainty <= 0:
		return fmt.Errorf("%w: uncertainty %v must be a finite number > 0", ErrInvalidInput, in.Uncertainty)
	case math.IsNaN(in.ReservoirCorrection) || math.IsInf(in.ReservoirCorrection, 0):
		return fmt.Errorf("%w: reservoir correction %v is not a finite number", ErrInvalidInput, in.ReservoirCorrection)
	}
	return nil
}

func knownCurveType(ct CurveType) bool {
	for _, known := range KnownCurveTypes {
		if ct == known {
			return true
		}
	}
	return false
}

// modeOf returns the calendar year with maximum probability. The
// distribution is sorted ascending by year and the comparison is strict, so
// ties resolve to the earliest year.
func modeOf(dist []ProbabilityPoint) int {
	mode := dist[0]
	for _, p := range dist[1:] {
		if p.Probability > mode.Probability {
			mode = p
		}
	}
	return mode.CalBP
}
