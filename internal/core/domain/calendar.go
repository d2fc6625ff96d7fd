package domain

import "fmt"

// presentEpoch is the reference year for "before present" ages.
const presentEpoch = 1950

// CalBPToCalendar converts a cal BP age to an astronomical calendar year
// (positive = AD, zero and negative = BC, shifted by one because there is no
// historical year zero).
func CalBPToCalendar(calBP int) int {
	return presentEpoch - calBP
}

// CalBCToCalBP converts a historical BC year to cal BP.
func CalBCToCalBP(yearBC int) int {
	return presentEpoch - 1 + yearBC
}

// CalADToCalBP converts a historical AD year to cal BP.
func CalADToCalBP(yearAD int) int {
	return presentEpoch - yearAD
}

// FormatCalYear renders a cal BP age in the conventional cal BC / cal AD
// notation used in publications.
func FormatCalYear(calBP int) string {
	year := CalBPToCalendar(calBP)
	if year > 0 {
		return fmt.Sprintf("cal AD %d", year)
	}
	return fmt.Sprintf("cal BC %d", 1-year)
}

// FormatInterval renders an interval as "older to younger" in cal BC/AD terms.
// Larger cal BP means older, so the interval's Max renders first.
func FormatInterval(iv Interval) string {
	return fmt.Sprintf("%s to %s", FormatCalYear(iv.Max), FormatCalYear(iv.Min))
}
