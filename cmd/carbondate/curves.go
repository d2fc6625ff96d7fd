package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chronolab/carbondate/internal/core/domain"
)

var curvesCmd = &cobra.Command{
	Use:   "curves",
	Short: "List the available calibration curves",
	Long: `Load and verify the configured calibration curves, printing each
curve's point count and calendar span.`,
	RunE: runCurves,
}

func init() {
	curvesCmd.Flags().StringVar(&calCurveDir, "curve-dir", "", "Directory with .14c curve files (overrides config)")
	rootCmd.AddCommand(curvesCmd)
}

func runCurves(cmd *cobra.Command, args []string) error {
	curves, err := loadCurveSet(cmd.Context())
	if err != nil {
		return err
	}

	for _, curveType := range domain.KnownCurveTypes {
		curve, ok := curves[curveType]
		if !ok {
			fmt.Printf("%-10s (not loaded)\n", curveType)
			continue
		}
		fmt.Printf("%-10s %6d points, %.0f-%.0f cal BP\n",
			curveType, len(curve), curve.MinCalBP(), curve.MaxCalBP())
	}
	return nil
}
