package export

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gyeh/hospstats/internal/model"
	"github.com/gyeh/hospstats/internal/normalize"
)

// WriteText renders the monthly table, the period summary and any failed
// months as aligned console text.
func WriteText(w io.Writer, run *model.RunSummary) error {
	fmt.Fprintf(w, "Facility %s  region %s  year %d  run %s\n\n", run.Facility, run.Region, run.Year, run.RunID)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Period\tDischarges\tDeaths\tMort %\tOcc %\tMed LOS\tSurg LOS\tAdult ICU %\tNeo ICU %\tPed ICU %\tInf ‰\t")
	for _, r := range Records(run) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			r.Period, r.Discharges, r.Deaths, r.Mortality, r.GeneralOccupancy,
			r.MedicalLOS, r.SurgicalLOS, r.AdultICUOccupancy, r.NeonatalICUOccupancy,
			r.PediatricICUOccupancy, r.InfectionDensity)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Indicator\tNumerator\tDenominator\tResult\tScore")
	for _, res := range run.Totals.Results {
		info := res.Indicator.Info()
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f %s\t%d / %d\n",
			info.Label, res.Numerator, res.Denominator, normalize.Round(res.Rate, 2), info.Unit, res.Score, res.MaxScore)
	}
	fmt.Fprintf(tw, "Total\t\t\t\t%d / %d\n", run.Totals.TotalScore, model.MaxTotalScore)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(run.Failures) > 0 {
		fmt.Fprintf(w, "\n%d month(s) degraded:\n", len(run.Failures))
		for _, f := range run.Failures {
			fmt.Fprintf(w, "  %s %s: %s\n", model.PeriodLabel(f.Year, f.Month), f.Phase, f.Err)
		}
	}
	return nil
}
