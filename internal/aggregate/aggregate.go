// Package aggregate reduces a month of hospitalization records and the
// month's capacity into one MonthlySummary.
package aggregate

import (
	"github.com/gyeh/hospstats/internal/classify"
	"github.com/gyeh/hospstats/internal/columns"
	"github.com/gyeh/hospstats/internal/config"
	"github.com/gyeh/hospstats/internal/model"
	"github.com/gyeh/hospstats/internal/normalize"
)

// Columns are the resolved hospitalization columns; empty means not found.
type Columns struct {
	Facility     string
	Death        string
	LengthOfStay string
	Procedure    string
	ICUDays      string
	Age          string
	AgeUnit      string
	ICUMarker    string
}

// ResolveColumns maps the hospitalization header to physical column names.
// No physical column is bound to two fields.
func ResolveColumns(header []string, r *config.Rules) Columns {
	col := columns.ResolveAll(header, r.Columns.HospitalizationFields())
	return Columns{
		Facility:     col[0],
		Death:        col[1],
		ICUDays:      col[2],
		LengthOfStay: col[3],
		Procedure:    col[4],
		Age:          col[5],
		AgeUnit:      col[6],
		ICUMarker:    col[7],
	}
}

// Missing lists the semantic fields that did not resolve.
func (c Columns) Missing() []string {
	var out []string
	for _, f := range []struct {
		name, col string
	}{
		{"facility", c.Facility},
		{"death", c.Death},
		{"length_of_stay", c.LengthOfStay},
		{"procedure", c.Procedure},
		{"icu_days", c.ICUDays},
		{"age", c.Age},
		{"age_unit", c.AgeUnit},
		{"icu_marker", c.ICUMarker},
	} {
		if f.col == "" {
			out = append(out, f.name)
		}
	}
	return out
}

// Records returns the normalized hospitalization records of facility.
// Unresolved columns yield their safe default in every record (zero days,
// no death, empty codes, unknown age), which zeroes the dependent metric
// without dropping the others. Without a facility column nothing can be
// attributed and no records are returned.
func Records(t *model.Table, facility string, cols Columns) []model.Hospitalization {
	fIdx := t.Index(cols.Facility)
	if fIdx < 0 {
		return nil
	}
	var (
		deathIdx  = t.Index(cols.Death)
		losIdx    = t.Index(cols.LengthOfStay)
		procIdx   = t.Index(cols.Procedure)
		icuIdx    = t.Index(cols.ICUDays)
		ageIdx    = t.Index(cols.Age)
		unitIdx   = t.Index(cols.AgeUnit)
		markerIdx = t.Index(cols.ICUMarker)
	)
	target := normalize.FacilityID(facility)

	var out []model.Hospitalization
	for i := range t.Rows {
		if normalize.FacilityID(t.Cell(i, fIdx)) != target {
			continue
		}
		age := model.UnknownAge
		if ageIdx >= 0 {
			age = normalize.AgeYears(t.Cell(i, ageIdx), t.Cell(i, unitIdx))
		}
		out = append(out, model.Hospitalization{
			LengthOfStay: normalize.NonNegative(t.Cell(i, losIdx)),
			Died:         normalize.Flag(t.Cell(i, deathIdx)),
			Procedure:    normalize.ProcedureCode(t.Cell(i, procIdx)),
			ICUDays:      normalize.NonNegative(t.Cell(i, icuIdx)),
			Age:          age,
			ICUMarker:    normalize.ICUMarker(t.Cell(i, markerIdx)),
		})
	}
	return out
}

// Summarize reduces classified episodes and capacity into a MonthlySummary.
// General-ward days are total stay days minus total ICU days, floored at 0.
func Summarize(year, month int, episodes []model.Episode, capacity model.Capacity) model.MonthlySummary {
	all := func(model.Episode) (bool, bool) { return true, true }
	stayDays := sumBy(episodes, all, losDays)[true]
	icuTotal := sumBy(episodes, all, icuDays)[true]
	deaths := sumBy(episodes, func(e model.Episode) (bool, bool) { return true, e.InstitutionalDeath }, one)[true]

	groupKey := func(e model.Episode) (model.ClinicalGroup, bool) { return e.Group, e.Group != model.GroupOther }
	groupDays := sumBy(episodes, groupKey, losDays)
	groupCount := sumBy(episodes, groupKey, one)

	unitDays := sumBy(episodes, func(e model.Episode) (model.ICUUnit, bool) {
		return e.Unit, e.Unit != model.UnitNone
	}, icuDays)

	general := stayDays - icuTotal
	if general < 0 {
		general = 0
	}

	return model.MonthlySummary{
		Year:  year,
		Month: month,
		Sums: model.Sums{
			Discharges:         int64(len(episodes)),
			Deaths:             deaths,
			GeneralDays:        general,
			MedicalDischarges:  groupCount[model.GroupMedical],
			MedicalDays:        groupDays[model.GroupMedical],
			SurgicalDischarges: groupCount[model.GroupSurgical],
			SurgicalDays:       groupDays[model.GroupSurgical],
			AdultICUDays:       unitDays[model.UnitAdult],
			NeonatalICUDays:    unitDays[model.UnitNeonatal],
			PediatricICUDays:   unitDays[model.UnitPediatric],
			Capacity:           capacity,
		},
	}
}

// Month resolves, filters, classifies and summarizes one month's extract. A
// nil table (no files for the month) yields a summary carrying only capacity.
func Month(t *model.Table, facility string, year, month int, capacity model.Capacity, c *classify.Classifier, r *config.Rules) (model.MonthlySummary, Columns) {
	if t == nil {
		return Summarize(year, month, nil, capacity), Columns{}
	}
	cols := ResolveColumns(t.Columns, r)
	episodes := c.ClassifyAll(Records(t, facility, cols))
	return Summarize(year, month, episodes, capacity), cols
}

// sumBy groups episodes by key and sums val within each group. Episodes for
// which key reports false are left out.
func sumBy[K comparable](episodes []model.Episode, key func(model.Episode) (K, bool), val func(model.Episode) int64) map[K]int64 {
	out := make(map[K]int64)
	for _, e := range episodes {
		if k, ok := key(e); ok {
			out[k] += val(e)
		}
	}
	return out
}

func losDays(e model.Episode) int64 { return e.LengthOfStay }
func icuDays(e model.Episode) int64 { return e.ICUDays }
func one(model.Episode) int64 { return 1 }
