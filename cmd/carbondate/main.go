package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chronolab/carbondate/internal/config"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "carbondate",
	Short: "Radiocarbon calibration toolkit",
	Long: `carbondate converts radiocarbon ages into calendar-age probability
distributions using the IntCal20, SHCal20, and Marine20 calibration curves,
and reports the mode and 68.2%/95.4% highest-posterior-density intervals.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath == "" {
			cfg = config.Default()
			return nil
		}
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
