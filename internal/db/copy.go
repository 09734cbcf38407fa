package db

import (
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/hospstats/internal/model"
)

// SummarySource implements pgx.CopyFromSource over the monthly summaries of
// one run, stamping each row with the run id.
type SummarySource struct {
	runID any
	rows  []model.MonthlySummary
	idx   int
}

// NewSummarySource creates a CopyFromSource over rows.
func NewSummarySource(runID any, rows []model.MonthlySummary) *SummarySource {
	return &SummarySource{runID: runID, rows: rows, idx: -1}
}

// Next advances to the next row.
func (s *SummarySource) Next() bool {
	s.idx++
	return s.idx < len(s.rows)
}

// Values returns the current row's values in COPY column order.
func (s *SummarySource) Values() ([]any, error) {
	return s.rows[s.idx].CopyValues(s.runID), nil
}

// Err always returns nil; the rows are in memory.
func (s *SummarySource) Err() error {
	return nil
}

// Compile-time check that SummarySource satisfies the interface.
var _ pgx.CopyFromSource = (*SummarySource)(nil)
