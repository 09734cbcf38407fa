package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/hospstats/internal/columns"
	"github.com/gyeh/hospstats/internal/model"
	"github.com/gyeh/hospstats/internal/normalize"
)

// Rules is the domain knowledge the pipeline depends on: column aliases, bed
// and marker code sets, ICU procedure prefixes, age thresholds and default bed
// counts. Historical revisions of the source disagree on several of these, so
// every value can be overridden from YAML.
type Rules struct {
	Columns  ColumnRules  `yaml:"columns"`
	Beds     BedRules     `yaml:"beds"`
	ICU      ICURules     `yaml:"icu"`
	Clinical ClinicalRule `yaml:"clinical"`
}

// ColumnRules lists the known aliases of every field the pipeline reads.
type ColumnRules struct {
	Facility     []string `yaml:"facility"`
	Death        []string `yaml:"death"`
	LengthOfStay []string `yaml:"length_of_stay"`
	Procedure    []string `yaml:"procedure"`
	ICUDays      []string `yaml:"icu_days"`
	Age          []string `yaml:"age"`
	AgeUnit      []string `yaml:"age_unit"`
	ICUMarker    []string `yaml:"icu_marker"`
	BedFacility  []string `yaml:"bed_facility"`
	BedType      []string `yaml:"bed_type"`
	BedQuantity  []string `yaml:"bed_quantity"`
}

// BedRules partitions bed-type codes and holds the fallback bed counts.
type BedRules struct {
	GeneralExcluded []string        `yaml:"general_excluded"`
	AdultICU        []string        `yaml:"adult_icu"`
	NeonatalICU     []string        `yaml:"neonatal_icu"`
	PediatricICU    []string        `yaml:"pediatric_icu"`
	Defaults        model.BedCounts `yaml:"defaults"`
}

// ICURules drives the three-tier ICU sub-population decision.
type ICURules struct {
	Markers           UnitCodes `yaml:"markers"`
	ProcedurePrefixes UnitCodes `yaml:"procedure_prefixes"`
	NeonatalBelowAge  int       `yaml:"neonatal_below_age"`
	PediatricBelowAge int       `yaml:"pediatric_below_age"`
}

// UnitCodes maps each ICU sub-population to its codes.
type UnitCodes struct {
	Adult     []string `yaml:"adult"`
	Neonatal  []string `yaml:"neonatal"`
	Pediatric []string `yaml:"pediatric"`
}

// ClinicalRule holds the procedure-group prefixes of the LOS indicators.
type ClinicalRule struct {
	MedicalPrefix  string `yaml:"medical_prefix"`
	SurgicalPrefix string `yaml:"surgical_prefix"`
}

// DefaultRules returns the rule set of the latest known source revision.
func DefaultRules() *Rules {
	return &Rules{
		Columns: ColumnRules{
			Facility:     []string{"CNES", "CNES_EXEC", "M_CNES"},
			Death:        []string{"MORTE", "OBITO"},
			LengthOfStay: []string{"DIAS_PERM", "QT_DIARIAS", "DIAS"},
			Procedure:    []string{"PROC_REA", "PROC_REALIZADO"},
			ICUDays:      []string{"UTI_MES_TO", "QT_DIARIAS_UTI"},
			Age:          []string{"IDADE"},
			AgeUnit:      []string{"COD_IDADE"},
			ICUMarker:    []string{"MARCA_UTI", "MARCA_UCI"},
			BedFacility:  []string{"CNES"},
			BedType:      []string{"CODLEITO"},
			BedQuantity:  []string{"QT_EXIST", "QT_SUS"},
		},
		// A zero ICU default means the facility has no such unit, so its
		// occupancy stays 0 instead of being computed on invented beds.
		Beds: BedRules{
			GeneralExcluded: []string{"10", "74", "75", "76", "77", "78", "79", "80", "81", "82", "83", "85", "86", "95"},
			AdultICU:        []string{"10", "74", "75", "76"},
			NeonatalICU:     []string{"81", "82", "83", "91", "92"},
			PediatricICU:    []string{"77", "78", "79", "95"},
			Defaults:        model.BedCounts{General: 100},
		},
		ICU: ICURules{
			Markers: UnitCodes{
				Adult:     []string{"74", "75", "76", "85", "86"},
				Neonatal:  []string{"80", "81", "82"},
				Pediatric: []string{"77", "78", "79"},
			},
			ProcedurePrefixes: UnitCodes{
				Adult:     []string{"080201008"},
				Neonatal:  []string{"08020101"},
				Pediatric: []string{"080201009"},
			},
			NeonatalBelowAge:  1,
			PediatricBelowAge: 14,
		},
		Clinical: ClinicalRule{
			MedicalPrefix:  "03",
			SurgicalPrefix: "04",
		},
	}
}

// LoadRules reads a YAML rules file over DefaultRules. Keys absent from the
// file keep their default; a present list replaces the default list.
func LoadRules(path string) (*Rules, error) {
	r := DefaultRules()
	if path == "" {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate rejects rule sets that would double count or divide by a negative.
func (r *Rules) Validate() error {
	if len(r.Columns.Facility) == 0 || len(r.Columns.BedFacility) == 0 {
		return fmt.Errorf("facility column aliases must not be empty")
	}
	d := r.Beds.Defaults
	if d.General < 0 || d.AdultICU < 0 || d.NeonatalICU < 0 || d.PediatricICU < 0 {
		return fmt.Errorf("default bed counts must not be negative")
	}
	if err := disjoint("icu.markers", normalizedSets(normalize.ICUMarker, r.ICU.Markers)); err != nil {
		return err
	}
	if err := disjoint("beds", normalizedSets(normalize.BedType, UnitCodes{
		Adult: r.Beds.AdultICU, Neonatal: r.Beds.NeonatalICU, Pediatric: r.Beds.PediatricICU,
	})); err != nil {
		return err
	}
	prefixes := r.ICU.ProcedurePrefixes
	all := append(append(append([]string{}, prefixes.Adult...), prefixes.Neonatal...), prefixes.Pediatric...)
	for i, a := range all {
		for j, b := range all {
			if i != j && len(a) <= len(b) && b[:len(a)] == a {
				return fmt.Errorf("icu.procedure_prefixes: %q overlaps %q", a, b)
			}
		}
	}
	if r.ICU.NeonatalBelowAge < 0 || r.ICU.PediatricBelowAge < r.ICU.NeonatalBelowAge {
		return fmt.Errorf("icu age thresholds must satisfy 0 <= neonatal (%d) <= pediatric (%d)",
			r.ICU.NeonatalBelowAge, r.ICU.PediatricBelowAge)
	}
	if r.Clinical.MedicalPrefix == "" || r.Clinical.SurgicalPrefix == "" ||
		r.Clinical.MedicalPrefix == r.Clinical.SurgicalPrefix {
		return fmt.Errorf("clinical prefixes must be distinct and non-empty")
	}
	return nil
}

// Set returns the codes of unit u.
func (c UnitCodes) Set(u model.ICUUnit) []string {
	switch u {
	case model.UnitAdult:
		return c.Adult
	case model.UnitNeonatal:
		return c.Neonatal
	case model.UnitPediatric:
		return c.Pediatric
	}
	return nil
}

func normalizedSets(norm func(string) string, c UnitCodes) map[model.ICUUnit][]string {
	out := make(map[model.ICUUnit][]string, len(model.ICUUnits))
	for _, u := range model.ICUUnits {
		for _, code := range c.Set(u) {
			if n := norm(code); n != "" {
				out[u] = append(out[u], n)
			}
		}
	}
	return out
}

func disjoint(name string, sets map[model.ICUUnit][]string) error {
	owner := make(map[string]model.ICUUnit)
	for _, u := range model.ICUUnits {
		for _, code := range sets[u] {
			if prev, ok := owner[code]; ok && prev != u {
				return fmt.Errorf("%s: code %s assigned to both %s and %s", name, code, prev, u)
			}
			owner[code] = u
		}
	}
	return nil
}

// HospitalizationFields lists the hospitalization extract fields in
// resolution order. ICU days precedes length of stay so the more specific
// column is bound before the broader LOS aliases run their substring pass.
func (c ColumnRules) HospitalizationFields() []columns.Field {
	return []columns.Field{
		c.FacilityField(), c.DeathField(), c.ICUDaysField(), c.LengthOfStayField(),
		c.ProcedureField(), c.AgeField(), c.AgeUnitField(), c.ICUMarkerField(),
	}
}

// BedFields lists the bed inventory fields in resolution order.
func (c ColumnRules) BedFields() []columns.Field {
	return []columns.Field{c.BedFacilityField(), c.BedTypeField(), c.BedQuantityField()}
}

// Field helpers used by the extractors. Death matches exactly: MORTE is a
// substring of the diagnosis column CID_MORTE.

func (c ColumnRules) FacilityField() columns.Field {
	return columns.Field{Name: "facility", Aliases: c.Facility, Fuzzy: true}
}

func (c ColumnRules) DeathField() columns.Field {
	return columns.Field{Name: "death", Aliases: c.Death}
}

func (c ColumnRules) LengthOfStayField() columns.Field {
	return columns.Field{Name: "length_of_stay", Aliases: c.LengthOfStay, Fuzzy: true}
}

func (c ColumnRules) ProcedureField() columns.Field {
	return columns.Field{Name: "procedure", Aliases: c.Procedure, Fuzzy: true}
}

func (c ColumnRules) ICUDaysField() columns.Field {
	return columns.Field{Name: "icu_days", Aliases: c.ICUDays, Fuzzy: true}
}

func (c ColumnRules) AgeField() columns.Field {
	return columns.Field{Name: "age", Aliases: c.Age}
}

func (c ColumnRules) AgeUnitField() columns.Field {
	return columns.Field{Name: "age_unit", Aliases: c.AgeUnit}
}

func (c ColumnRules) ICUMarkerField() columns.Field {
	return columns.Field{Name: "icu_marker", Aliases: c.ICUMarker, Fuzzy: true}
}

func (c ColumnRules) BedFacilityField() columns.Field {
	return columns.Field{Name: "bed_facility", Aliases: c.BedFacility, Fuzzy: true}
}

func (c ColumnRules) BedTypeField() columns.Field {
	return columns.Field{Name: "bed_type", Aliases: c.BedType, Fuzzy: true}
}

func (c ColumnRules) BedQuantityField() columns.Field {
	return columns.Field{Name: "bed_quantity", Aliases: c.BedQuantity, Fuzzy: true}
}
