package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/hospstats/internal/model"
	embedsql "github.com/gyeh/hospstats/internal/sql"
)

// SaveResult holds metrics from persisting one run.
type SaveResult struct {
	RunID       uuid.UUID
	MonthlyRows int64
	ScoreRows   int
	Duration    time.Duration
}

// SaveRun writes the run, its monthly summaries and its period scores in one
// transaction.
func SaveRun(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, run *model.RunSummary) (*SaveResult, error) {
	start := time.Now()

	runID, err := uuid.Parse(run.RunID)
	if err != nil {
		return nil, fmt.Errorf("save run id: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("save begin: %w", err)
	}
	defer tx.Rollback(ctx)

	months := make([]int32, len(run.Months))
	for i, m := range run.Months {
		months[i] = int32(m)
	}
	if _, err := tx.Exec(ctx, embedsql.InsertRun,
		runID, run.Region, run.Facility, int32(run.Year), months,
		int32(run.Totals.TotalScore), int32(model.MaxTotalScore), int32(len(run.Failures)),
	); err != nil {
		return nil, fmt.Errorf("save insert run: %w", err)
	}

	monthlyRows, err := tx.CopyFrom(ctx,
		pgx.Identifier{"indicators", "monthly_summaries"},
		model.MonthlyColumns(),
		NewSummarySource(runID, run.Monthly),
	)
	if err != nil {
		return nil, fmt.Errorf("save copy monthly: %w", err)
	}

	batch := &pgx.Batch{}
	for _, r := range run.Totals.Results {
		batch.Queue(embedsql.InsertPeriodScore,
			runID, r.Indicator.String(), r.Numerator, r.Denominator, r.Rate, int32(r.Score), int32(r.MaxScore))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("save period scores: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("save commit: %w", err)
	}

	res := &SaveResult{
		RunID:       runID,
		MonthlyRows: monthlyRows,
		ScoreRows:   len(run.Totals.Results),
		Duration:    time.Since(start),
	}
	log.Info().
		Str("run_id", runID.String()).
		Int64("monthly_rows", res.MonthlyRows).
		Int("score_rows", res.ScoreRows).
		Str("duration", res.Duration.String()).
		Msg("run saved")
	return res, nil
}

// DeleteRun removes a run and, by cascade, its rows. It reports whether the
// run existed.
func DeleteRun(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID) (bool, error) {
	tag, err := pool.Exec(ctx, embedsql.DeleteRun, runID)
	if err != nil {
		return false, fmt.Errorf("delete run %s: %w", runID, err)
	}
	return tag.RowsAffected() > 0, nil
}
