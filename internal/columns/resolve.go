// Package columns resolves semantic field names to the physical column names
// of a record set whose header drifts between source revisions.
package columns

import "strings"

// Field is a semantic field with its historical column aliases in priority order.
type Field struct {
	Name    string
	Aliases []string
	// Fuzzy enables substring matching after exact matching fails. Leave it
	// off for aliases that are substrings of unrelated columns (IDADE in COD_IDADE).
	Fuzzy bool
}

// Normalize upper-cases and trims a column name for comparison.
func Normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Exact returns the first header column equal to an alias, trying aliases in order.
func Exact(header []string, aliases []string) (string, bool) {
	for _, a := range aliases {
		a = Normalize(a)
		if a == "" {
			continue
		}
		for _, col := range header {
			if Normalize(col) == a {
				return col, true
			}
		}
	}
	return "", false
}

// Contains returns the first header column containing an alias as a
// substring, trying aliases in order and columns in header order.
func Contains(header []string, aliases []string) (string, bool) {
	for _, a := range aliases {
		a = Normalize(a)
		if a == "" {
			continue
		}
		for _, col := range header {
			if strings.Contains(Normalize(col), a) {
				return col, true
			}
		}
	}
	return "", false
}

// Resolve tries Exact over every alias before falling back to Contains, so a
// broad alias never shadows an exact column listed after it.
func Resolve(header []string, f Field) (string, bool) {
	if col, ok := Exact(header, f.Aliases); ok {
		return col, true
	}
	if f.Fuzzy {
		return Contains(header, f.Aliases)
	}
	return "", false
}

// Index resolves f against header and returns the column position, or -1.
func Index(header []string, f Field) int {
	col, ok := Resolve(header, f)
	if !ok {
		return -1
	}
	for i, c := range header {
		if c == col {
			return i
		}
	}
	return -1
}

// ResolveAll resolves several fields against one header and returns the
// column of each field, "" when unresolved. Every field gets its exact pass
// before any substring matching runs, and a column bound to one field is
// never bound to another, so a fuzzy alias (QT_DIARIAS) cannot take a column
// another field owns (QT_DIARIAS_UTI). Fuzzy fields are tried in the order
// given.
func ResolveAll(header []string, fields []Field) []string {
	out := make([]string, len(fields))
	claimed := make(map[string]bool, len(fields))
	for i, f := range fields {
		if col, ok := Exact(header, f.Aliases); ok && !claimed[col] {
			out[i] = col
			claimed[col] = true
		}
	}
	for i, f := range fields {
		if out[i] != "" || !f.Fuzzy {
			continue
		}
		if col, ok := Contains(unclaimed(header, claimed), f.Aliases); ok {
			out[i] = col
			claimed[col] = true
		}
	}
	return out
}

func unclaimed(header []string, claimed map[string]bool) []string {
	out := make([]string, 0, len(header))
	for _, col := range header {
		if !claimed[col] {
			out = append(out, col)
		}
	}
	return out
}
