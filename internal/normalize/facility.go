package normalize

import (
	"strings"
)

// FacilityIDWidth is the width of the national facility registry code.
const FacilityIDWidth = 7

// FacilityID normalizes a facility identifier to a zero-padded fixed-width
// string. Sources emit it as a number ("2142376", "2142376.0") or as a
// string with or without leading zeros ("02142376").
func FacilityID(v string) string {
	s := ProcedureCode(v)
	if s == "" {
		return ""
	}
	s = strings.TrimLeft(s, "0")
	return ZeroPad(s, FacilityIDWidth)
}

// ZeroPad left-pads s with zeros up to width. Longer values are returned as-is.
func ZeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
