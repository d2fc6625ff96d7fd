// Package exporter renders calibration outcomes in formats downstream tools
// ingest: flat CSV for spreadsheets and statistics packages, and an
// OxCal-style probability listing for plotting software.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chronolab/carbondate/internal/batch"
	"github.com/chronolab/carbondate/internal/core/domain"
)

// CSVExporter writes one row per sample with the mode and the HPD regions.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

var csvHeader = []string{
	"lab_code", "c14_age", "uncertainty", "curve",
	"mode_cal_bp", "mode_calendar", "hpd68", "hpd95", "status", "error",
}

// Export writes all outcomes, failed ones included, so a re-run can be
// diffed row for row against the upload.
func (e *CSVExporter) Export(w io.Writer, outcomes []batch.Outcome) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, out := range outcomes {
		record := []string{
			out.Sample.LabCode,
			strconv.FormatFloat(out.Sample.Input.C14Age, 'f', -1, 64),
			strconv.FormatFloat(out.Sample.Input.Uncertainty, 'f', -1, 64),
			string(out.Sample.Input.CurveType),
		}
		if out.Err != nil {
			record = append(record, "", "", "", "", "error", out.Err.Error())
		} else {
			record = append(record,
				strconv.Itoa(out.Result.ModeCalBP),
				domain.FormatCalYear(out.Result.ModeCalBP),
				formatIntervalList(out.Result.HPD68),
				formatIntervalList(out.Result.HPD95),
				"ok", "",
			)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row for %s: %w", out.Sample.LabCode, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatIntervalList joins disjoint intervals with semicolons so the cell
// stays a single CSV field.
func formatIntervalList(intervals []domain.Interval) string {
	parts := make([]string, len(intervals))
	for i, iv := range intervals {
		parts[i] = fmt.Sprintf("%d-%d calBP", iv.Max, iv.Min)
	}
	return strings.Join(parts, "; ")
}
