package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gyeh/hospstats/internal/model"
	"github.com/gyeh/hospstats/internal/normalize"
)

// Sheet names of the workbook written by WriteXLSX.
const (
	SheetMonthly = "monthly"
	SheetSummary = "summary"
)

var monthlyHeader = []any{
	"Period", "Discharges", "Deaths", "Mortality %",
	"Ward days", "Ward bed-days", "Occupancy %",
	"Medical discharges", "Medical days", "Medical LOS",
	"Surgical discharges", "Surgical days", "Surgical LOS",
	"Adult ICU days", "Adult ICU bed-days", "Adult ICU %",
	"Neonatal ICU days", "Neonatal ICU bed-days", "Neonatal ICU %",
	"Pediatric ICU days", "Pediatric ICU bed-days", "Pediatric ICU %",
	"Infection cases", "Catheter days", "Infection density",
}

var summaryHeader = []any{"Indicator", "Formula", "Numerator", "Denominator", "Result", "Unit", "Target", "Score", "Max"}

// WriteXLSX writes a workbook with the monthly table and the period summary.
func WriteXLSX(path string, run *model.RunSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMonthly); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := writeMonthlySheet(f, run); err != nil {
		return err
	}
	if err := writeSummarySheet(f, run); err != nil {
		return err
	}
	for _, sheet := range []string{SheetMonthly, SheetSummary} {
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			return fmt.Errorf("style %s header: %w", sheet, err)
		}
	}
	f.SetColWidth(SheetMonthly, "A", "A", 10)
	f.SetColWidth(SheetMonthly, "B", "Y", 16)
	f.SetColWidth(SheetSummary, "A", "B", 34)
	f.SetColWidth(SheetSummary, "C", "I", 12)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeMonthlySheet(f *excelize.File, run *model.RunSummary) error {
	if err := f.SetSheetRow(SheetMonthly, "A1", &monthlyHeader); err != nil {
		return fmt.Errorf("monthly header: %w", err)
	}
	for i, r := range Records(run) {
		row := []any{
			r.Period, r.Discharges, r.Deaths, r.Mortality,
			r.GeneralDays, r.GeneralBedDays, r.GeneralOccupancy,
			r.MedicalDischarges, r.MedicalDays, r.MedicalLOS,
			r.SurgicalDischarges, r.SurgicalDays, r.SurgicalLOS,
			r.AdultICUDays, r.AdultICUBedDays, r.AdultICUOccupancy,
			r.NeonatalICUDays, r.NeonatalICUBedDays, r.NeonatalICUOccupancy,
			r.PediatricICUDays, r.PediatricICUBedDays, r.PediatricICUOccupancy,
			r.InfectionCases, r.CatheterDays, r.InfectionDensity,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetMonthly, cell, &row); err != nil {
			return fmt.Errorf("monthly row %s: %w", r.Period, err)
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, run *model.RunSummary) error {
	if err := f.SetSheetRow(SheetSummary, "A1", &summaryHeader); err != nil {
		return fmt.Errorf("summary header: %w", err)
	}
	row := 2
	for _, res := range run.Totals.Results {
		info := res.Indicator.Info()
		values := []any{
			info.Label, info.Formula, res.Numerator, res.Denominator,
			normalize.Round(res.Rate, 2), info.Unit, info.Target, res.Score, res.MaxScore,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetSummary, cell, &values); err != nil {
			return fmt.Errorf("summary row %s: %w", info.Key, err)
		}
		row++
	}
	total := []any{"Total", "", "", "", "", "", "", run.Totals.TotalScore, model.MaxTotalScore}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(SheetSummary, cell, &total); err != nil {
		return fmt.Errorf("summary total: %w", err)
	}
	return nil
}
