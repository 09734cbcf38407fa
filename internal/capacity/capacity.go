// Package capacity derives a facility's monthly bed-days from the bed
// inventory extract.
package capacity

import (
	"github.com/gyeh/hospstats/internal/columns"
	"github.com/gyeh/hospstats/internal/config"
	"github.com/gyeh/hospstats/internal/model"
	"github.com/gyeh/hospstats/internal/normalize"
)

// Class is one of the four non-overlapping bed partitions.
type Class int

const (
	ClassNone Class = iota
	ClassGeneral
	ClassAdultICU
	ClassNeonatalICU
	ClassPediatricICU
)

// Result is the capacity of one facility-month.
type Result struct {
	Capacity model.Capacity
	// Beds is the bed count actually used for each class.
	Beds model.BedCounts
	// Inventory is the bed count found in the extract, before defaults.
	Inventory model.BedCounts
	// Defaulted lists the classes that fell back to the configured default.
	Defaulted []string
	// Resolved is false when the extract lacked a usable facility, bed-type
	// or quantity column, in which case every class is defaulted.
	Resolved bool
}

// Partition classifies bed-type codes. The ICU sets win over the general
// exclusion list, and general is everything not excluded and not ICU, so a
// code is counted in at most one class.
type Partition struct {
	class map[string]Class
	excl  map[string]bool
}

// NewPartition builds a partition from the configured bed rules.
func NewPartition(r config.BedRules) *Partition {
	p := &Partition{class: make(map[string]Class), excl: make(map[string]bool)}
	for _, c := range r.GeneralExcluded {
		p.excl[normalize.BedType(c)] = true
	}
	add := func(codes []string, cl Class) {
		for _, c := range codes {
			p.class[normalize.BedType(c)] = cl
		}
	}
	add(r.AdultICU, ClassAdultICU)
	add(r.NeonatalICU, ClassNeonatalICU)
	add(r.PediatricICU, ClassPediatricICU)
	return p
}

// Classify returns the class of a raw bed-type code.
func (p *Partition) Classify(code string) Class {
	c := normalize.BedType(code)
	if c == "" {
		return ClassNone
	}
	if cl, ok := p.class[c]; ok {
		return cl
	}
	if p.excl[c] {
		return ClassNone
	}
	return ClassGeneral
}

// Columns are the resolved bed inventory columns; empty means not found.
type Columns struct {
	Facility string
	BedType  string
	Quantity string
}

// ResolveColumns maps the bed inventory header to physical column names.
func ResolveColumns(header []string, r *config.Rules) Columns {
	col := columns.ResolveAll(header, r.Columns.BedFields())
	return Columns{Facility: col[0], BedType: col[1], Quantity: col[2]}
}

// Missing lists the fields that did not resolve.
func (c Columns) Missing() []string {
	var out []string
	if c.Facility == "" {
		out = append(out, "bed_facility")
	}
	if c.BedType == "" {
		out = append(out, "bed_type")
	}
	if c.Quantity == "" {
		out = append(out, "bed_quantity")
	}
	return out
}

// Extract sums existing beds per class for facility and scales them to
// bed-days for the month. A class whose inventory sum is not positive keeps
// its configured default, so missing data never zeroes a denominator that
// has a non-zero default. A nil table yields defaults only.
func Extract(beds *model.Table, facility string, year, month int, r *config.Rules) Result {
	res := Result{}
	if beds != nil {
		cols := ResolveColumns(beds.Columns, r)
		if len(cols.Missing()) == 0 {
			res.Resolved = true
			res.Inventory = sumInventory(beds, cols, normalize.FacilityID(facility), NewPartition(r.Beds))
		}
	}
	res.Beds, res.Defaulted = applyDefaults(res.Inventory, r.Beds.Defaults)
	res.Capacity = res.Beds.BedDays(model.DaysInMonth(year, month))
	return res
}

// Defaults returns a Result built entirely from the configured defaults,
// used when the inventory could not be retrieved.
func Defaults(year, month int, r *config.Rules) Result {
	return Extract(nil, "", year, month, r)
}

func sumInventory(beds *model.Table, cols Columns, facility string, p *Partition) model.BedCounts {
	fIdx := beds.Index(cols.Facility)
	tIdx := beds.Index(cols.BedType)
	qIdx := beds.Index(cols.Quantity)

	var inv model.BedCounts
	for i := range beds.Rows {
		if normalize.FacilityID(beds.Cell(i, fIdx)) != facility {
			continue
		}
		qty := normalize.NonNegative(beds.Cell(i, qIdx))
		switch p.Classify(beds.Cell(i, tIdx)) {
		case ClassGeneral:
			inv.General += qty
		case ClassAdultICU:
			inv.AdultICU += qty
		case ClassNeonatalICU:
			inv.NeonatalICU += qty
		case ClassPediatricICU:
			inv.PediatricICU += qty
		}
	}
	return inv
}

func applyDefaults(inv, def model.BedCounts) (model.BedCounts, []string) {
	var defaulted []string
	pick := func(name string, got, fallback int64) int64 {
		if got > 0 {
			return got
		}
		defaulted = append(defaulted, name)
		return fallback
	}
	out := model.BedCounts{
		General:      pick("general", inv.General, def.General),
		AdultICU:     pick("adult_icu", inv.AdultICU, def.AdultICU),
		NeonatalICU:  pick("neonatal_icu", inv.NeonatalICU, def.NeonatalICU),
		PediatricICU: pick("pediatric_icu", inv.PediatricICU, def.PediatricICU),
	}
	return out, defaulted
}
