package domain

import "testing"

// linearCurve builds a synthetic curve where the radiocarbon age equals the
// calendar age, tabulated every 10 years from 0 to maxCal.
func linearCurve(maxCal float64) CalibrationCurve {
	var curve CalibrationCurve
	for cal := 0.0; cal <= maxCal; cal += 10 {
		curve = append(curve, CurvePoint{CalBP: cal, C14BP: cal, Error: 20})
	}
	return curve
}

func TestSelectRangeFullCurve(t *testing.T) {
	curve := linearCurve(10000)
	min, max := SelectRange(curve, 5000, 50, SearchFullCurve)
	if min != 0 || max != 10000 {
		t.Errorf("full_curve = [%v, %v], want [0, 10000]", min, max)
	}
}

func TestSelectRangeFixed(t *testing.T) {
	// The literal [0, 12000] window, clamped to the curve's extent.
	curve := linearCurve(10000)
	min, max := SelectRange(curve, 5000, 50, SearchFixedRange)
	if min != 0 || max != 10000 {
		t.Errorf("fixed_range = [%v, %v], want [0, 10000]", min, max)
	}

	longCurve := linearCurve(50000)
	min, max = SelectRange(longCurve, 5000, 50, SearchFixedRange)
	if min != 0 || max != 12000 {
		t.Errorf("fixed_range on long curve = [%v, %v], want [0, 12000]", min, max)
	}
}

func TestSelectRangeC14Band(t *testing.T) {
	curve := linearCurve(10000)

	// 5 sigma of 50 = 250 years around 5000, padded by 500 each side.
	min, max := SelectRange(curve, 5000, 50, SearchC14)
	if min != 4250 || max != 5750 {
		t.Errorf("c14 band = [%v, %v], want [4250, 5750]", min, max)
	}
}

func TestSelectRangeC14BandLowerClamp(t *testing.T) {
	curve := linearCurve(10000)

	// Band [−150, 350] maps to cal [0, 350]; padding would go negative and
	// is clamped at 0.
	min, max := SelectRange(curve, 100, 50, SearchC14)
	if min != 0 {
		t.Errorf("lower bound = %v, want 0", min)
	}
	if max != 850 {
		t.Errorf("upper bound = %v, want 850", max)
	}
}

func TestSelectRangeC14BandOffCurve(t *testing.T) {
	curve := linearCurve(10000)

	// An age older than anything on the curve still yields a usable window
	// at the curve edge rather than an empty one.
	min, max := SelectRange(curve, 20000, 50, SearchC14)
	if min >= max {
		t.Errorf("off-curve band = [%v, %v], want a non-empty window", min, max)
	}
	if max != 10000 {
		t.Errorf("off-curve band upper = %v, want clamp to curve end 10000", max)
	}
}

func TestSelectRangeClampsToCurve(t *testing.T) {
	// A curve starting at 2000 cal BP must bound every mode's window.
	var curve CalibrationCurve
	for cal := 2000.0; cal <= 6000; cal += 10 {
		curve = append(curve, CurvePoint{CalBP: cal, C14BP: cal, Error: 20})
	}

	for _, mode := range []SearchMode{SearchC14, SearchFullCurve, SearchFixedRange} {
		min, max := SelectRange(curve, 4000, 50, mode)
		if min < 2000 || max > 6000 {
			t.Errorf("mode %s: [%v, %v] escapes curve bounds [2000, 6000]", mode, min, max)
		}
	}
}

func TestParseSearchMode(t *testing.T) {
	tests := []struct {
		in     string
		want   SearchMode
		wantOK bool
	}{
		{"", SearchC14, true},
		{"c14_bp", SearchC14, true},
		{"C14", SearchC14, true},
		{"full_curve", SearchFullCurve, true},
		{"fixed_range", SearchFixedRange, true},
		{" fixed ", SearchFixedRange, true},
		{"bogus", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSearchMode(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseSearchMode(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
