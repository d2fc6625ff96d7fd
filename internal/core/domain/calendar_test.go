package domain

import "testing"

func TestCalendarConversions(t *testing.T) {
	tests := []struct {
		name   string
		calBP  int
		want   string
		fromBP int
	}{
		{"AD year", 958, "cal AD 992", CalADToCalBP(992)},
		{"BC year", 3925, "cal BC 1976", CalBCToCalBP(1976)},
		{"present epoch", 0, "cal AD 1950", CalADToCalBP(1950)},
		{"first BC year", 1950, "cal BC 1", CalBCToCalBP(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCalYear(tt.calBP); got != tt.want {
				t.Errorf("FormatCalYear(%d) = %q, want %q", tt.calBP, got, tt.want)
			}
			if tt.fromBP != tt.calBP {
				t.Errorf("round trip = %d, want %d", tt.fromBP, tt.calBP)
			}
		})
	}
}

func TestFormatInterval(t *testing.T) {
	// 3925-2425 cal BP is 1976-476 cal BC; the older bound renders first.
	got := FormatInterval(Interval{Min: 2425, Max: 3925})
	want := "cal BC 1976 to cal BC 476"
	if got != want {
		t.Errorf("FormatInterval = %q, want %q", got, want)
	}
}
