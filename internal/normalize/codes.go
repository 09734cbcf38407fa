package normalize

import (
	"regexp"
	"strings"
)

var nonDigit = regexp.MustCompile(`[^0-9]`)

// ProcedureCode returns the digits of a performed-procedure code. Values that
// were stored as floating point ("303010037.0") lose the fractional part first.
func ProcedureCode(v string) string {
	s := strings.TrimSpace(v)
	if i := strings.IndexByte(s, '.'); i >= 0 && allZero(s[i+1:]) {
		s = s[:i]
	}
	return nonDigit.ReplaceAllString(s, "")
}

// ICUMarker returns a two-digit marker code, or "" when the record carries no
// usable marker ("", "0", "00").
func ICUMarker(v string) string {
	s := ProcedureCode(v)
	if s == "" || allZero(s) {
		return ""
	}
	return ZeroPad(s, 2)
}

// BedType returns a two-digit bed-type code.
func BedType(v string) string {
	s := ProcedureCode(v)
	if s == "" {
		return ""
	}
	return ZeroPad(s, 2)
}

func allZero(s string) bool {
	for _, c := range s {
		if c != '0' {
			return false
		}
	}
	return true
}
