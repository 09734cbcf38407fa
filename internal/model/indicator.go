package model

// Indicator identifies one of the eight scored hospital-performance indicators.
type Indicator int

const (
	Mortality Indicator = iota
	GeneralOccupancy
	MedicalLOS
	SurgicalLOS
	AdultICUOccupancy
	NeonatalICUOccupancy
	PediatricICUOccupancy
	InfectionDensity
)

// IndicatorInfo is the fixed descriptive metadata of an indicator.
type IndicatorInfo struct {
	Key      string // stable identifier used in storage and exports
	Label    string
	Formula  string
	Unit     string // "%", "d" or "‰"
	Target   float64
	MaxScore int
}

var indicatorInfo = [...]IndicatorInfo{
	Mortality:             {Key: "mortality", Label: "1. Institutional mortality", Formula: "deaths / discharges x 100", Unit: "%", Target: 3, MaxScore: 7},
	GeneralOccupancy:      {Key: "general_occupancy", Label: "2. General occupancy (excl. ICU)", Formula: "ward days / bed-days x 100", Unit: "%", Target: 80, MaxScore: 7},
	MedicalLOS:            {Key: "medical_los", Label: "3. Medical length of stay", Formula: "days / discharges", Unit: "d", Target: 8, MaxScore: 6},
	SurgicalLOS:           {Key: "surgical_los", Label: "4. Surgical length of stay", Formula: "days / discharges", Unit: "d", Target: 5, MaxScore: 6},
	AdultICUOccupancy:     {Key: "adult_icu_occupancy", Label: "5. Adult ICU occupancy", Formula: "ICU days / bed-days x 100", Unit: "%", Target: 85, MaxScore: 6},
	NeonatalICUOccupancy:  {Key: "neonatal_icu_occupancy", Label: "6. Neonatal ICU occupancy", Formula: "ICU days / bed-days x 100", Unit: "%", Target: 85, MaxScore: 6},
	PediatricICUOccupancy: {Key: "pediatric_icu_occupancy", Label: "7. Pediatric ICU occupancy", Formula: "ICU days / bed-days x 100", Unit: "%", Target: 85, MaxScore: 6},
	InfectionDensity:      {Key: "infection_density", Label: "8. CVC infection density", Formula: "cases / catheter-days x 1000", Unit: "‰", Target: 2, MaxScore: 6},
}

// AllIndicators lists the indicators in report order.
var AllIndicators = []Indicator{
	Mortality, GeneralOccupancy, MedicalLOS, SurgicalLOS,
	AdultICUOccupancy, NeonatalICUOccupancy, PediatricICUOccupancy, InfectionDensity,
}

// MaxTotalScore is the sum of every indicator's maximum score.
const MaxTotalScore = 50

// Info returns the indicator's metadata.
func (i Indicator) Info() IndicatorInfo {
	if i < 0 || int(i) >= len(indicatorInfo) {
		return IndicatorInfo{Key: "unknown"}
	}
	return indicatorInfo[i]
}

func (i Indicator) String() string { return i.Info().Key }

// IndicatorResult is one computed and scored indicator.
type IndicatorResult struct {
	Indicator   Indicator
	Numerator   int64
	Denominator int64
	Rate        float64
	Score       int
	MaxScore    int
}

// Scorecard holds all eight results in AllIndicators order plus the total.
type Scorecard struct {
	Results    []IndicatorResult
	TotalScore int
}

// Result returns the entry for ind, or a zero result if absent.
func (s Scorecard) Result(ind Indicator) IndicatorResult {
	for _, r := range s.Results {
		if r.Indicator == ind {
			return r
		}
	}
	return IndicatorResult{Indicator: ind, MaxScore: ind.Info().MaxScore}
}
