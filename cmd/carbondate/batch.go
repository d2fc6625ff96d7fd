package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chronolab/carbondate/internal/adapter/exporter"
	"github.com/chronolab/carbondate/internal/batch"
	"github.com/chronolab/carbondate/internal/core/domain"
)

var (
	batchFile    string
	batchWorkers int
	batchOutput  string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Calibrate a CSV of samples",
	Long: `Calibrate every sample in a CSV file without touching a database.

The CSV layout is:
  lab_code,c14_age,uncertainty[,reservoir[,curve[,search_mode]]]

Examples:
  carbondate batch --file samples.csv
  carbondate batch --file samples.csv --workers 16 -o json
  carbondate batch --file samples.csv -o csv > results.csv
  carbondate batch --file samples.csv -o oxcal > posteriors.txt`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "CSV file of samples")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 8, "Concurrent calibration workers")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "text", "Output format (text, json, csv, oxcal)")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}

type batchJSONOutcome struct {
	LabCode string                    `json:"lab_code"`
	Error   string                    `json:"error,omitempty"`
	Result  *domain.CalibrationResult `json:"result,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	curves, err := loadCurveSet(cmd.Context())
	if err != nil {
		return err
	}

	f, err := os.Open(batchFile)
	if err != nil {
		return err
	}
	samples, err := batch.ReadSamples(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", batchFile, err)
	}
	if len(samples) == 0 {
		return fmt.Errorf("%s contains no samples", batchFile)
	}

	outcomes := batch.Calibrate(cmd.Context(), curves, samples, batchWorkers)

	switch batchOutput {
	case "csv":
		return exporter.NewCSVExporter().Export(os.Stdout, outcomes)
	case "oxcal":
		return exporter.NewOxCalExporter().Export(os.Stdout, outcomes)
	}

	if batchOutput == "json" {
		out := make([]batchJSONOutcome, len(outcomes))
		for i, outcome := range outcomes {
			out[i] = batchJSONOutcome{LabCode: outcome.Sample.LabCode}
			if outcome.Err != nil {
				out[i].Error = outcome.Err.Error()
				continue
			}
			outcome.Result.Distribution = nil // summary only for batches
			out[i].Result = outcome.Result
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
			fmt.Printf("❌ %s: %v\n", outcome.Sample.LabCode, outcome.Err)
			continue
		}
		fmt.Printf("✅ %s: %v±%v BP -> mode %s, 95.4%%: %s\n",
			outcome.Sample.LabCode,
			outcome.Sample.Input.C14Age,
			outcome.Sample.Input.Uncertainty,
			domain.FormatCalYear(outcome.Result.ModeCalBP),
			formatIntervals(outcome.Result.HPD95),
		)
	}

	fmt.Println("------------------------------------------------")
	if failed > 0 {
		return fmt.Errorf("%d of %d samples failed", failed, len(outcomes))
	}
	fmt.Printf("✅ %d samples calibrated.\n", len(outcomes))
	return nil
}
