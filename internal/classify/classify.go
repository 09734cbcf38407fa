// Package classify labels hospitalization records with mortality, clinical
// group and ICU sub-population.
package classify

import (
	"strings"

	"github.com/gyeh/hospstats/internal/config"
	"github.com/gyeh/hospstats/internal/model"
	"github.com/gyeh/hospstats/internal/normalize"
)

// Decision is the outcome of one ICU rule. A zero Decision means the rule had
// no opinion and the next rule is tried.
type Decision struct {
	Unit  model.ICUUnit
	Basis model.ICUBasis
}

// Decided reports whether the rule reached a classification.
func (d Decision) Decided() bool { return d.Unit != model.UnitNone }

// Rule inspects a record and returns a Decision.
type Rule interface {
	Decide(rec *model.Hospitalization) Decision
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(rec *model.Hospitalization) Decision

func (f RuleFunc) Decide(rec *model.Hospitalization) Decision { return f(rec) }

// MarkerRule classifies by the explicit ICU marker code.
func MarkerRule(codes config.UnitCodes) Rule {
	lookup := make(map[string]model.ICUUnit)
	for _, u := range model.ICUUnits {
		for _, c := range codes.Set(u) {
			if n := normalize.ICUMarker(c); n != "" {
				lookup[n] = u
			}
		}
	}
	return RuleFunc(func(rec *model.Hospitalization) Decision {
		if rec.ICUMarker == "" {
			return Decision{}
		}
		if u, ok := lookup[rec.ICUMarker]; ok {
			return Decision{Unit: u, Basis: model.BasisMarker}
		}
		return Decision{}
	})
}

// ProcedureRule classifies by the ICU daily-billing procedure prefix.
func ProcedureRule(prefixes config.UnitCodes) Rule {
	type entry struct {
		prefix string
		unit   model.ICUUnit
	}
	var entries []entry
	for _, u := range []model.ICUUnit{model.UnitNeonatal, model.UnitPediatric, model.UnitAdult} {
		for _, p := range prefixes.Set(u) {
			if p = normalize.ProcedureCode(p); p != "" {
				entries = append(entries, entry{prefix: p, unit: u})
			}
		}
	}
	return RuleFunc(func(rec *model.Hospitalization) Decision {
		for _, e := range entries {
			if strings.HasPrefix(rec.Procedure, e.prefix) {
				return Decision{Unit: e.unit, Basis: model.BasisProcedure}
			}
		}
		return Decision{}
	})
}

// AgeRule always decides: below neonatalBelow years is neonatal, below
// pediatricBelow is pediatric, everything else (including model.UnknownAge)
// is adult.
func AgeRule(neonatalBelow, pediatricBelow int) Rule {
	return RuleFunc(func(rec *model.Hospitalization) Decision {
		switch {
		case rec.Age < neonatalBelow:
			return Decision{Unit: model.UnitNeonatal, Basis: model.BasisAge}
		case rec.Age < pediatricBelow:
			return Decision{Unit: model.UnitPediatric, Basis: model.BasisAge}
		default:
			return Decision{Unit: model.UnitAdult, Basis: model.BasisAge}
		}
	})
}

// Classifier applies the clinical-group prefixes and an ordered ICU rule chain.
type Classifier struct {
	rules          []Rule
	medicalPrefix  string
	surgicalPrefix string
}

// New builds the marker → procedure prefix → age chain from rules.
func New(r *config.Rules) *Classifier {
	return NewWithRules(r.Clinical, MarkerRule(r.ICU.Markers), ProcedureRule(r.ICU.ProcedurePrefixes),
		AgeRule(r.ICU.NeonatalBelowAge, r.ICU.PediatricBelowAge))
}

// NewWithRules builds a classifier from an explicit rule chain; the first
// rule that decides wins.
func NewWithRules(clinical config.ClinicalRule, rules ...Rule) *Classifier {
	return &Classifier{
		rules:          rules,
		medicalPrefix:  clinical.MedicalPrefix,
		surgicalPrefix: clinical.SurgicalPrefix,
	}
}

// ICU runs the rule chain. Records without ICU days are not classified.
func (c *Classifier) ICU(rec *model.Hospitalization) Decision {
	if rec.ICUDays <= 0 {
		return Decision{}
	}
	for _, r := range c.rules {
		if d := r.Decide(rec); d.Decided() {
			return d
		}
	}
	return Decision{}
}

// Group derives the clinical group from the procedure code prefix.
func (c *Classifier) Group(procedure string) model.ClinicalGroup {
	switch {
	case procedure == "":
		return model.GroupOther
	case strings.HasPrefix(procedure, c.medicalPrefix):
		return model.GroupMedical
	case strings.HasPrefix(procedure, c.surgicalPrefix):
		return model.GroupSurgical
	}
	return model.GroupOther
}

// Classify labels one record.
func (c *Classifier) Classify(rec model.Hospitalization) model.Episode {
	d := c.ICU(&rec)
	return model.Episode{
		Hospitalization:    rec,
		InstitutionalDeath: IsInstitutionalDeath(rec),
		Group:              c.Group(rec.Procedure),
		Unit:               d.Unit,
		Basis:              d.Basis,
	}
}

// ClassifyAll labels every record in order.
func (c *Classifier) ClassifyAll(recs []model.Hospitalization) []model.Episode {
	out := make([]model.Episode, len(recs))
	for i, r := range recs {
		out[i] = c.Classify(r)
	}
	return out
}

// IsInstitutionalDeath reports a death after at least one full day of stay.
// Same-day deaths are excluded by convention.
func IsInstitutionalDeath(rec model.Hospitalization) bool {
	return rec.Died && rec.LengthOfStay >= 1
}
