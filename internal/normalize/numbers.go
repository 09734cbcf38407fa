package normalize

import (
	"math"
	"strconv"
	"strings"
)

// Int parses an integer cell leniently. Decimal values are truncated;
// empty, unparseable or out-of-range input yields def.
func Int(v string, def int64) int64 {
	s := strings.TrimSpace(v)
	if s == "" {
		return def
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	// -2^63 is exact in float64; 2^63 is the first value past MaxInt64.
	if err != nil || math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return def
	}
	return int64(f)
}

// NonNegative parses like Int with a zero default and clamps negatives to 0.
func NonNegative(v string) int64 {
	n := Int(v, 0)
	if n < 0 {
		return 0
	}
	return n
}

// Flag reports whether a 0/1 style indicator cell is set.
func Flag(v string) bool {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "S", "SIM", "TRUE", "T", "Y", "YES":
		return true
	}
	return Int(v, 0) != 0
}

// Round rounds v to the given number of decimal places.
// Uses math.Round to avoid truncation bias.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
