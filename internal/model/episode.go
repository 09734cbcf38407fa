package model

// UnknownAge marks an age that was absent or unparseable. It routes ICU
// classification to the adult fallback.
const UnknownAge = 999

// Hospitalization is one normalized hospitalization record for a facility-month.
type Hospitalization struct {
	LengthOfStay int64
	Died         bool
	Procedure    string
	ICUDays      int64
	Age          int
	ICUMarker    string
}

// ClinicalGroup is the length-of-stay grouping derived from the procedure code.
type ClinicalGroup int

const (
	GroupOther ClinicalGroup = iota
	GroupMedical
	GroupSurgical
)

func (g ClinicalGroup) String() string {
	switch g {
	case GroupMedical:
		return "medical"
	case GroupSurgical:
		return "surgical"
	default:
		return "other"
	}
}

// ICUUnit is the intensive-care sub-population of an episode.
type ICUUnit int

const (
	UnitNone ICUUnit = iota
	UnitAdult
	UnitNeonatal
	UnitPediatric
)

// ICUUnits lists the three sub-populations in report order.
var ICUUnits = []ICUUnit{UnitAdult, UnitNeonatal, UnitPediatric}

func (u ICUUnit) String() string {
	switch u {
	case UnitAdult:
		return "adult"
	case UnitNeonatal:
		return "neonatal"
	case UnitPediatric:
		return "pediatric"
	default:
		return "none"
	}
}

// ICUBasis records which evidence decided the ICU sub-population.
type ICUBasis int

const (
	BasisNone ICUBasis = iota
	BasisMarker
	BasisProcedure
	BasisAge
)

func (b ICUBasis) String() string {
	switch b {
	case BasisMarker:
		return "marker"
	case BasisProcedure:
		return "procedure"
	case BasisAge:
		return "age"
	default:
		return "none"
	}
}

// Episode is a classified hospitalization. Derived fields are additive; the
// embedded record is never altered.
type Episode struct {
	Hospitalization
	InstitutionalDeath bool
	Group              ClinicalGroup
	Unit               ICUUnit
	Basis              ICUBasis
}
