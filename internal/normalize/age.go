package normalize

import "github.com/gyeh/hospstats/internal/model"

// Age unit codes used by the hospitalization extract (COD_IDADE).
const (
	AgeUnitDays      = "2"
	AgeUnitMonths    = "3"
	AgeUnitYears     = "4"
	AgeUnitCentenary = "5" // years above 100
)

// AgeYears converts an age cell and its optional unit code to whole years.
// Ages recorded in days or months are under one year. Missing, negative or
// unparseable ages yield model.UnknownAge.
func AgeYears(age, unit string) int {
	n := Int(age, -1)
	if n < 0 {
		return model.UnknownAge
	}
	switch ProcedureCode(unit) {
	case AgeUnitDays, AgeUnitMonths:
		return 0
	case AgeUnitCentenary:
		return int(n) + 100
	}
	if n >= model.UnknownAge {
		return model.UnknownAge
	}
	return int(n)
}
