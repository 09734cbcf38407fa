package model

import "time"

// BedCounts holds bed counts per class for one facility-month.
type BedCounts struct {
	General      int64 `yaml:"general"`
	AdultICU     int64 `yaml:"adult_icu"`
	NeonatalICU  int64 `yaml:"neonatal_icu"`
	PediatricICU int64 `yaml:"pediatric_icu"`
}

// BedDays scales the counts by the number of days in the month.
func (b BedCounts) BedDays(days int) Capacity {
	d := int64(days)
	return Capacity{
		GeneralBedDays:      b.General * d,
		AdultICUBedDays:     b.AdultICU * d,
		NeonatalICUBedDays:  b.NeonatalICU * d,
		PediatricICUBedDays: b.PediatricICU * d,
	}
}

// Capacity holds bed-days available in one month (or summed over a period).
type Capacity struct {
	GeneralBedDays      int64
	AdultICUBedDays     int64
	NeonatalICUBedDays  int64
	PediatricICUBedDays int64
}

// Sums holds every additive figure of the pipeline. Monthly summaries and
// period totals share it so totals are a plain element-wise sum.
type Sums struct {
	Discharges         int64
	Deaths             int64
	GeneralDays        int64
	MedicalDischarges  int64
	MedicalDays        int64
	SurgicalDischarges int64
	SurgicalDays       int64
	AdultICUDays       int64
	NeonatalICUDays    int64
	PediatricICUDays   int64
	Capacity
	InfectionCases int64
	CatheterDays   int64
}

// Add accumulates o into s.
func (s *Sums) Add(o Sums) {
	s.Discharges += o.Discharges
	s.Deaths += o.Deaths
	s.GeneralDays += o.GeneralDays
	s.MedicalDischarges += o.MedicalDischarges
	s.MedicalDays += o.MedicalDays
	s.SurgicalDischarges += o.SurgicalDischarges
	s.SurgicalDays += o.SurgicalDays
	s.AdultICUDays += o.AdultICUDays
	s.NeonatalICUDays += o.NeonatalICUDays
	s.PediatricICUDays += o.PediatricICUDays
	s.GeneralBedDays += o.GeneralBedDays
	s.AdultICUBedDays += o.AdultICUBedDays
	s.NeonatalICUBedDays += o.NeonatalICUBedDays
	s.PediatricICUBedDays += o.PediatricICUBedDays
	s.InfectionCases += o.InfectionCases
	s.CatheterDays += o.CatheterDays
}

// ICUDays returns the ICU patient-days of the given sub-population.
func (s Sums) ICUDays(u ICUUnit) int64 {
	switch u {
	case UnitAdult:
		return s.AdultICUDays
	case UnitNeonatal:
		return s.NeonatalICUDays
	case UnitPediatric:
		return s.PediatricICUDays
	}
	return 0
}

// MonthlySummary is the per-month row handed to the presentation layer.
type MonthlySummary struct {
	Year  int
	Month int
	Sums
}

// Label returns the "MM/YY" period label.
func (m MonthlySummary) Label() string {
	return PeriodLabel(m.Year, m.Month)
}

// InfectionEntry is one manually supplied catheter infection count.
// A zero Year matches the requested year.
type InfectionEntry struct {
	Year         int   `yaml:"year"`
	Month        int   `yaml:"month"`
	Cases        int64 `yaml:"cases"`
	CatheterDays int64 `yaml:"catheter_days"`
}

// MonthFailure records a month whose data could not be fetched or decoded.
// The month still appears in the summary sequence with zeroed figures.
type MonthFailure struct {
	Year  int
	Month int
	Phase string
	Err   string
}

// PeriodTotals is the element-wise sum of the monthly summaries with the
// eight indicators computed from those sums.
type PeriodTotals struct {
	Sums
	Scorecard
}

// RunSummary captures one pipeline run.
type RunSummary struct {
	RunID         string
	Region        string
	Facility      string
	Year          int
	Months        []int
	Monthly       []MonthlySummary
	Totals        PeriodTotals
	Failures      []MonthFailure
	Memoized      bool
	DurationFetch time.Duration
	DurationTotal time.Duration
}
