// Package score computes the eight indicator rates from summed figures and
// maps each rate to its integer score.
package score

import (
	"github.com/gyeh/hospstats/internal/model"
)

// Ratio returns num*scale/den, or 0 when den is zero. Multiplying before
// dividing keeps rates such as 80.00 exact at score boundaries.
func Ratio(num, den int64, scale float64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) * scale / float64(den)
}

// Operands returns the numerator and denominator of ind taken from s.
func Operands(ind model.Indicator, s model.Sums) (num, den int64) {
	switch ind {
	case model.Mortality:
		return s.Deaths, s.Discharges
	case model.GeneralOccupancy:
		return s.GeneralDays, s.GeneralBedDays
	case model.MedicalLOS:
		return s.MedicalDays, s.MedicalDischarges
	case model.SurgicalLOS:
		return s.SurgicalDays, s.SurgicalDischarges
	case model.AdultICUOccupancy:
		return s.AdultICUDays, s.AdultICUBedDays
	case model.NeonatalICUOccupancy:
		return s.NeonatalICUDays, s.NeonatalICUBedDays
	case model.PediatricICUOccupancy:
		return s.PediatricICUDays, s.PediatricICUBedDays
	case model.InfectionDensity:
		return s.InfectionCases, s.CatheterDays
	}
	return 0, 0
}

// Rate computes the rate of ind from s. General occupancy is capped at 100.
func Rate(ind model.Indicator, s model.Sums) float64 {
	num, den := Operands(ind, s)
	switch ind {
	case model.Mortality, model.AdultICUOccupancy, model.NeonatalICUOccupancy, model.PediatricICUOccupancy:
		return Ratio(num, den, 100)
	case model.GeneralOccupancy:
		return min(Ratio(num, den, 100), 100)
	case model.MedicalLOS, model.SurgicalLOS:
		return Ratio(num, den, 1)
	case model.InfectionDensity:
		return Ratio(num, den, 1000)
	}
	return 0
}

// Score maps a rate to the integer score of ind.
func Score(ind model.Indicator, rate float64) int {
	switch ind {
	case model.Mortality:
		return mortality(rate)
	case model.GeneralOccupancy:
		return occupancy(rate)
	case model.MedicalLOS:
		return lengthOfStay(rate, 8, 11, 14)
	case model.SurgicalLOS:
		return lengthOfStay(rate, 5, 7, 9)
	case model.AdultICUOccupancy, model.NeonatalICUOccupancy, model.PediatricICUOccupancy:
		return icuOccupancy(rate)
	case model.InfectionDensity:
		return infection(rate)
	}
	return 0
}

func mortality(r float64) int {
	switch {
	case r <= 3:
		return 7
	case r < 6:
		return 4
	case r <= 8:
		return 2
	}
	return 0
}

func occupancy(r float64) int {
	switch {
	case r >= 80:
		return 7
	case r >= 65:
		return 4
	case r >= 55:
		return 2
	}
	return 0
}

// lengthOfStay scores an average stay. A zero average means no discharges
// and scores nothing.
func lengthOfStay(r, best, good, fair float64) int {
	switch {
	case r <= 0:
		return 0
	case r < best:
		return 6
	case r < good:
		return 4
	case r < fair:
		return 2
	}
	return 0
}

func icuOccupancy(r float64) int {
	switch {
	case r >= 85:
		return 6
	case r >= 70:
		return 4
	case r >= 60:
		return 2
	}
	return 0
}

func infection(r float64) int {
	switch {
	case r <= 2:
		return 6
	case r <= 3:
		return 4
	case r <= 5:
		return 2
	}
	return 0
}

// Evaluate computes and scores every indicator from s.
func Evaluate(s model.Sums) model.Scorecard {
	card := model.Scorecard{Results: make([]model.IndicatorResult, 0, len(model.AllIndicators))}
	for _, ind := range model.AllIndicators {
		num, den := Operands(ind, s)
		rate := Rate(ind, s)
		res := model.IndicatorResult{
			Indicator:   ind,
			Numerator:   num,
			Denominator: den,
			Rate:        rate,
			Score:       Score(ind, rate),
			MaxScore:    ind.Info().MaxScore,
		}
		card.Results = append(card.Results, res)
		card.TotalScore += res.Score
	}
	return card
}

// MergeInfection returns a copy of monthly with the manual infection counts
// filled in by month. Entries with a zero Year match any year; several entries
// for the same month are summed. Months without an entry keep zero counts and
// entries for months outside monthly are ignored.
func MergeInfection(monthly []model.MonthlySummary, entries []model.InfectionEntry) []model.MonthlySummary {
	out := make([]model.MonthlySummary, len(monthly))
	for i, m := range monthly {
		m.InfectionCases, m.CatheterDays = 0, 0
		for _, e := range entries {
			if e.Month == m.Month && (e.Year == 0 || e.Year == m.Year) {
				m.InfectionCases += e.Cases
				m.CatheterDays += e.CatheterDays
			}
		}
		out[i] = m
	}
	return out
}

// Totals sums monthly element-wise and scores the sums. Rates come from the
// period sums, never from averaging monthly rates.
func Totals(monthly []model.MonthlySummary) model.PeriodTotals {
	var sums model.Sums
	for _, m := range monthly {
		sums.Add(m.Sums)
	}
	return model.PeriodTotals{Sums: sums, Scorecard: Evaluate(sums)}
}
