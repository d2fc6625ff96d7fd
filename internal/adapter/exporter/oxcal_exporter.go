package exporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/chronolab/carbondate/internal/batch"
)

// OxCalExporter writes the posterior of each successful sample as a
// tab-separated probability listing, one block per sample, with the block
// header plotting tools key on:
//
//	# OxA-1 R_Date(3000,30)
//	2850	0.000214
//	2851	0.000229
//	...
//
// Failed samples are skipped; the CSV export carries their errors.
type OxCalExporter struct{}

func NewOxCalExporter() *OxCalExporter {
	return &OxCalExporter{}
}

func (e *OxCalExporter) Export(w io.Writer, outcomes []batch.Outcome) error {
	var b strings.Builder
	for _, out := range outcomes {
		if out.Err != nil {
			continue
		}
		fmt.Fprintf(&b, "# %s R_Date(%g,%g)\n",
			out.Sample.LabCode, out.Sample.Input.C14Age, out.Sample.Input.Uncertainty)
		for _, p := range out.Result.Distribution {
			fmt.Fprintf(&b, "%d\t%.6g\n", p.CalBP, p.Probability)
		}
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
