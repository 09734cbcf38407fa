package source

import (
	"github.com/gyeh/hospstats/internal/columns"
	"github.com/gyeh/hospstats/internal/config"
)

// Resolution is the outcome of resolving one semantic field against a header.
// Column is empty when no alias matched.
type Resolution struct {
	Field  string
	Column string
}

// ValidateHeader resolves every field the pipeline reads from an extract of
// group g against header.
func ValidateHeader(g Group, header []string, r *config.Rules) []Resolution {
	var fields []columns.Field
	switch g {
	case GroupHospitalization:
		fields = r.Columns.HospitalizationFields()
	case GroupBeds:
		fields = r.Columns.BedFields()
	}
	cols := columns.ResolveAll(header, fields)
	out := make([]Resolution, 0, len(fields))
	for i, f := range fields {
		out = append(out, Resolution{Field: f.Name, Column: cols[i]})
	}
	return out
}
