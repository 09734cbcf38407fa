package model

// MonthlyColumns returns the ordered column names for COPY into
// indicators.monthly_summaries.
func MonthlyColumns() []string {
	return []string{
		"run_id",
		"year",
		"month",
		"discharges",
		"deaths",
		"general_days",
		"medical_discharges",
		"medical_days",
		"surgical_discharges",
		"surgical_days",
		"adult_icu_days",
		"neonatal_icu_days",
		"pediatric_icu_days",
		"general_bed_days",
		"adult_icu_bed_days",
		"neonatal_icu_bed_days",
		"pediatric_icu_bed_days",
		"infection_cases",
		"catheter_days",
	}
}

// CopyValues returns the row values in the same order as MonthlyColumns(),
// suitable for pgx CopyFromSource.
func (m *MonthlySummary) CopyValues(runID any) []any {
	return []any{
		runID,
		int32(m.Year),
		int32(m.Month),
		m.Discharges,
		m.Deaths,
		m.GeneralDays,
		m.MedicalDischarges,
		m.MedicalDays,
		m.SurgicalDischarges,
		m.SurgicalDays,
		m.AdultICUDays,
		m.NeonatalICUDays,
		m.PediatricICUDays,
		m.GeneralBedDays,
		m.AdultICUBedDays,
		m.NeonatalICUBedDays,
		m.PediatricICUBedDays,
		m.InfectionCases,
		m.CatheterDays,
	}
}
