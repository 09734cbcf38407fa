// Package export renders a computed run as Parquet, XLSX or console text.
package export

import (
	"github.com/gyeh/hospstats/internal/model"
	"github.com/gyeh/hospstats/internal/normalize"
	"github.com/gyeh/hospstats/internal/score"
)

// MonthlyRecord is one month of a run with its raw sums and its rates.
type MonthlyRecord struct {
	RunID                 string  `parquet:"run_id"`
	Region                string  `parquet:"region"`
	Facility              string  `parquet:"facility"`
	Year                  int32   `parquet:"year"`
	Month                 int32   `parquet:"month"`
	Period                string  `parquet:"period"`
	Discharges            int64   `parquet:"discharges"`
	Deaths                int64   `parquet:"deaths"`
	GeneralDays           int64   `parquet:"general_days"`
	MedicalDischarges     int64   `parquet:"medical_discharges"`
	MedicalDays           int64   `parquet:"medical_days"`
	SurgicalDischarges    int64   `parquet:"surgical_discharges"`
	SurgicalDays          int64   `parquet:"surgical_days"`
	AdultICUDays          int64   `parquet:"adult_icu_days"`
	NeonatalICUDays       int64   `parquet:"neonatal_icu_days"`
	PediatricICUDays      int64   `parquet:"pediatric_icu_days"`
	GeneralBedDays        int64   `parquet:"general_bed_days"`
	AdultICUBedDays       int64   `parquet:"adult_icu_bed_days"`
	NeonatalICUBedDays    int64   `parquet:"neonatal_icu_bed_days"`
	PediatricICUBedDays   int64   `parquet:"pediatric_icu_bed_days"`
	InfectionCases        int64   `parquet:"infection_cases"`
	CatheterDays          int64   `parquet:"catheter_days"`
	Mortality             float64 `parquet:"mortality"`
	GeneralOccupancy      float64 `parquet:"general_occupancy"`
	MedicalLOS            float64 `parquet:"medical_los"`
	SurgicalLOS           float64 `parquet:"surgical_los"`
	AdultICUOccupancy     float64 `parquet:"adult_icu_occupancy"`
	NeonatalICUOccupancy  float64 `parquet:"neonatal_icu_occupancy"`
	PediatricICUOccupancy float64 `parquet:"pediatric_icu_occupancy"`
	InfectionDensity      float64 `parquet:"infection_density"`
}

// Records returns one MonthlyRecord per month of run, rates rounded to two
// decimals.
func Records(run *model.RunSummary) []MonthlyRecord {
	out := make([]MonthlyRecord, 0, len(run.Monthly))
	for _, m := range run.Monthly {
		rate := func(ind model.Indicator) float64 {
			return normalize.Round(score.Rate(ind, m.Sums), 2)
		}
		out = append(out, MonthlyRecord{
			RunID:                 run.RunID,
			Region:                run.Region,
			Facility:              run.Facility,
			Year:                  int32(m.Year),
			Month:                 int32(m.Month),
			Period:                m.Label(),
			Discharges:            m.Discharges,
			Deaths:                m.Deaths,
			GeneralDays:           m.GeneralDays,
			MedicalDischarges:     m.MedicalDischarges,
			MedicalDays:           m.MedicalDays,
			SurgicalDischarges:    m.SurgicalDischarges,
			SurgicalDays:          m.SurgicalDays,
			AdultICUDays:          m.AdultICUDays,
			NeonatalICUDays:       m.NeonatalICUDays,
			PediatricICUDays:      m.PediatricICUDays,
			GeneralBedDays:        m.GeneralBedDays,
			AdultICUBedDays:       m.AdultICUBedDays,
			NeonatalICUBedDays:    m.NeonatalICUBedDays,
			PediatricICUBedDays:   m.PediatricICUBedDays,
			InfectionCases:        m.InfectionCases,
			CatheterDays:          m.CatheterDays,
			Mortality:             rate(model.Mortality),
			GeneralOccupancy:      rate(model.GeneralOccupancy),
			MedicalLOS:            rate(model.MedicalLOS),
			SurgicalLOS:           rate(model.SurgicalLOS),
			AdultICUOccupancy:     rate(model.AdultICUOccupancy),
			NeonatalICUOccupancy:  rate(model.NeonatalICUOccupancy),
			PediatricICUOccupancy: rate(model.PediatricICUOccupancy),
			InfectionDensity:      rate(model.InfectionDensity),
		})
	}
	return out
}
