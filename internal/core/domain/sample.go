package domain

import "time"

// CalibratedSample is the persisted record of one calibration: the labeled
// input plus the summary statistics, without the full distribution.
type CalibratedSample struct {
	ID           string
	LabCode      string
	Input        CalibrationInput
	ModeCalBP    int
	HPD68        []Interval
	HPD95        []Interval
	CalibratedAt time.Time
}

// NewCalibratedSample builds the persisted record from a calibration result.
func NewCalibratedSample(id, labCode string, res *CalibrationResult, at time.Time) CalibratedSample {
	return CalibratedSample{
		ID:           id,
		LabCode:      labCode,
		Input:        res.Input,
		ModeCalBP:    res.ModeCalBP,
		HPD68:        res.HPD68,
		HPD95:        res.HPD95,
		CalibratedAt: at,
	}
}
