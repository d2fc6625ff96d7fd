package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chronolab/carbondate/internal/adapter/curvedata"
	"github.com/chronolab/carbondate/internal/core/domain"
)

var (
	calAge          float64
	calError        float64
	calReservoir    float64
	calCurve        string
	calSearchMode   string
	calCurveDir     string
	calOutput       string
	calDistribution bool
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Calibrate a single radiocarbon date",
	Long: `Calibrate one radiocarbon measurement against a calibration curve.

Examples:
  carbondate calibrate --age 3000 --error 30
  carbondate calibrate --age 450 --error 25 --curve shcal20 -o json
  carbondate calibrate --age 1200 --error 40 --reservoir 400 --curve marine20`,
	RunE: runCalibrate,
}

func init() {
	calibrateCmd.Flags().Float64Var(&calAge, "age", 0, "Measured radiocarbon age (BP)")
	calibrateCmd.Flags().Float64Var(&calError, "error", 0, "1-sigma measurement uncertainty (years)")
	calibrateCmd.Flags().Float64Var(&calReservoir, "reservoir", 0, "Reservoir correction to subtract (years)")
	calibrateCmd.Flags().StringVar(&calCurve, "curve", "intcal20", "Calibration curve (intcal20, shcal20, marine20)")
	calibrateCmd.Flags().StringVar(&calSearchMode, "mode", "c14_bp", "Search mode (c14_bp, full_curve, fixed_range)")
	calibrateCmd.Flags().StringVar(&calCurveDir, "curve-dir", "", "Directory with .14c curve files (overrides config)")
	calibrateCmd.Flags().StringVarP(&calOutput, "output", "o", "text", "Output format (text, json)")
	calibrateCmd.Flags().BoolVar(&calDistribution, "distribution", false, "Include the full distribution in JSON output")
	_ = calibrateCmd.MarkFlagRequired("age")
	_ = calibrateCmd.MarkFlagRequired("error")
	rootCmd.AddCommand(calibrateCmd)
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	curves, err := loadCurveSet(cmd.Context())
	if err != nil {
		return err
	}

	input := domain.CalibrationInput{
		C14Age:              calAge,
		Uncertainty:         calError,
		ReservoirCorrection: calReservoir,
	}
	// Unknown names pass through so the pipeline applies its
	// fallback-with-warning policy.
	if curveType, ok := domain.ParseCurveType(calCurve); ok {
		input.CurveType = curveType
	} else {
		input.CurveType = domain.CurveType(calCurve)
	}
	if mode, ok := domain.ParseSearchMode(calSearchMode); ok {
		input.SearchMode = mode
	} else {
		input.SearchMode = domain.SearchMode(calSearchMode)
	}

	result, err := domain.CalibrateDate(curves, input)
	if err != nil {
		return err
	}

	if calOutput == "json" {
		if !calDistribution {
			result.Distribution = nil
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(result)
	return nil
}

// loadCurveSet builds a provider from flags/config and loads the curves.
func loadCurveSet(ctx context.Context) (domain.CurveSet, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	dir := calCurveDir
	if dir == "" {
		dir = cfg.CurveDir
	}

	if _, err := os.Stat(dir); err != nil && len(cfg.Mirrors) > 0 {
		// No local curve directory but mirrors are configured.
		return curvedata.NewHTTPProvider(cfg.MirrorURLs()).LoadCurves(ctx)
	}
	return curvedata.NewDirProvider(dir).LoadCurves(ctx)
}

func printResult(result *domain.CalibrationResult) {
	fmt.Printf("Radiocarbon age: %v ± %v BP", result.Input.C14Age, result.Input.Uncertainty)
	if result.Input.ReservoirCorrection != 0 {
		fmt.Printf(" (reservoir correction %v)", result.Input.ReservoirCorrection)
	}
	fmt.Printf("\nCurve:           %s\n", result.Input.CurveType)

	for _, warning := range result.Warnings {
		fmt.Printf("Warning:         %s\n", warning.Message)
	}

	fmt.Printf("Mode:            %d cal BP (%s)\n", result.ModeCalBP, domain.FormatCalYear(result.ModeCalBP))
	fmt.Printf("68.2%% intervals: %s\n", formatIntervals(result.HPD68))
	fmt.Printf("95.4%% intervals: %s\n", formatIntervals(result.HPD95))
}

func formatIntervals(intervals []domain.Interval) string {
	if len(intervals) == 0 {
		return "(none)"
	}
	parts := make([]string, len(intervals))
	for i, iv := range intervals {
		parts[i] = fmt.Sprintf("%d-%d cal BP (%s)", iv.Max, iv.Min, domain.FormatInterval(iv))
	}
	return strings.Join(parts, "; ")
}
