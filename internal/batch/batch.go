// Package batch reads tabular sample uploads and fans calibrations out over
// a worker pool. Calibration over a shared curve set is embarrassingly
// parallel: the curves are read-only and each call owns its own state.
package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/chronolab/carbondate/internal/core/domain"
)

// Sample is one labeled calibration request from an upload.
type Sample struct {
	LabCode string
	Input   domain.CalibrationInput
}

// Outcome pairs a sample with its result or failure. Outcomes keep the
// input order regardless of worker scheduling.
type Outcome struct {
	Sample Sample
	Result *domain.CalibrationResult
	Err    error
}

// ReadSamples parses a CSV of samples:
//
//	lab_code,c14_age,uncertainty[,reservoir[,curve[,search_mode]]]
//
// A header line is detected by its lab_code column and skipped. Unknown
// curve names pass through untouched so the pipeline can apply its
// fallback-with-warning policy.
func ReadSamples(r io.Reader) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // optional trailing columns
	reader.TrimLeadingSpace = true

	var samples []Sample
	lineNo := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return samples, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		lineNo++

		if lineNo == 1 && len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "lab_code") {
			continue
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("line %d: want at least lab_code,c14_age,uncertainty", lineNo)
		}

		c14Age, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: c14 age: %w", lineNo, err)
		}
		uncertainty, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: uncertainty: %w", lineNo, err)
		}

		input := domain.CalibrationInput{C14Age: c14Age, Uncertainty: uncertainty}
		if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
			reservoir, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: reservoir correction: %w", lineNo, err)
			}
			input.ReservoirCorrection = reservoir
		}
		if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
			if curveType, ok := domain.ParseCurveType(record[4]); ok {
				input.CurveType = curveType
			} else {
				input.CurveType = domain.CurveType(strings.TrimSpace(record[4]))
			}
		}
		if len(record) > 5 && strings.TrimSpace(record[5]) != "" {
			if mode, ok := domain.ParseSearchMode(record[5]); ok {
				input.SearchMode = mode
			} else {
				input.SearchMode = domain.SearchMode(strings.TrimSpace(record[5]))
			}
		}

		samples = append(samples, Sample{LabCode: strings.TrimSpace(record[0]), Input: input})
	}
}

// Calibrate runs every sample through the pipeline with the given number of
// workers and returns outcomes in input order. workers < 1 means sequential.
func Calibrate(ctx context.Context, curves domain.CurveSet, samples []Sample, workers int) []Outcome {
	outcomes := make([]Outcome, len(samples))
	if workers < 1 {
		workers = 1
	}
	if workers > len(samples) {
		workers = len(samples)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				result, err := domain.CalibrateDate(curves, samples[i].Input)
				outcomes[i] = Outcome{Sample: samples[i], Result: result, Err: err}
			}
		}()
	}

feed:
	for i := range samples {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	// Samples never fed because the context expired still need an error.
	for i := range outcomes {
		if outcomes[i].Result == nil && outcomes[i].Err == nil {
			outcomes[i] = Outcome{Sample: samples[i], Err: ctx.Err()}
		}
	}
	return outcomes
}
