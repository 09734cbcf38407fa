// Package pipeline runs the monthly indicator computation for one facility
// and period: fetch, classify, aggregate, merge manual infection data, score.
package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/hospstats/internal/classify"
	"github.com/gyeh/hospstats/internal/config"
	"github.com/gyeh/hospstats/internal/model"
	"github.com/gyeh/hospstats/internal/normalize"
	"github.com/gyeh/hospstats/internal/score"
	"github.com/gyeh/hospstats/internal/source"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Request selects the facility and period to compute.
type Request struct {
	Region   string
	Facility string
	Year     int
	Months   []int
}

// normalized validates r and returns it with a canonical region, facility
// and month list.
func (r Request) normalized() (Request, error) {
	if strings.TrimSpace(r.Region) == "" {
		return r, fmt.Errorf("region is required")
	}
	fac := normalize.FacilityID(r.Facility)
	if fac == "" {
		return r, fmt.Errorf("facility is required")
	}
	months, err := model.NormalizeMonths(r.Months)
	if err != nil {
		return r, err
	}
	return Request{
		Region:   strings.ToUpper(strings.TrimSpace(r.Region)),
		Facility: fac,
		Year:     r.Year,
		Months:   months,
	}, nil
}

func (r Request) key() string {
	return fmt.Sprintf("%s|%s|%d|%v", r.Region, r.Facility, r.Year, r.Months)
}

// monthsResult is the memoized part of a run: everything that depends only
// on the fetched extracts.
type monthsResult struct {
	monthly  []model.MonthlySummary
	failures []model.MonthFailure
	fetch    time.Duration
}

// Pipeline computes indicator runs against one source. It is safe for
// concurrent use, but months within a run are always fetched one at a time.
type Pipeline struct {
	src        source.Provider
	rules      *config.Rules
	classifier *classify.Classifier
	log        zerolog.Logger

	mu   sync.Mutex
	memo map[string]*monthsResult
}

// New validates rules and returns a Pipeline reading from src.
func New(src source.Provider, rules *config.Rules, log zerolog.Logger) (*Pipeline, error) {
	if err := rules.Validate(); err != nil {
		return nil, &PipelineError{Phase: "rules", Err: err}
	}
	return &Pipeline{
		src:        src,
		rules:      rules,
		classifier: classify.New(rules),
		log:        log,
		memo:       make(map[string]*monthsResult),
	}, nil
}

// Run computes the monthly summaries and scored period totals of req. The
// result always holds one summary per requested month: months that could not
// be read are zeroed and listed in Failures. Only an invalid request or a
// cancelled context is returned as an error.
func (p *Pipeline) Run(ctx context.Context, req Request, infection []model.InfectionEntry) (*model.RunSummary, error) {
	totalStart := time.Now()

	req, err := req.normalized()
	if err != nil {
		return nil, &PipelineError{Phase: "request", Err: err}
	}
	log := p.log.With().
		Str("region", req.Region).
		Str("facility", req.Facility).
		Int("year", req.Year).
		Logger()

	res, memoized := p.cached(req)
	if !memoized {
		res, err = p.computeMonths(ctx, log, req)
		if err != nil {
			return nil, &PipelineError{Phase: "months", Err: err}
		}
		p.store(req, res)
	}

	monthly := score.MergeInfection(res.monthly, infection)
	summary := &model.RunSummary{
		RunID:         uuid.NewString(),
		Region:        req.Region,
		Facility:      req.Facility,
		Year:          req.Year,
		Months:        slices.Clone(req.Months),
		Monthly:       monthly,
		Totals:        score.Totals(monthly),
		Failures:      slices.Clone(res.failures),
		Memoized:      memoized,
		DurationFetch: res.fetch,
		DurationTotal: time.Since(totalStart),
	}

	log.Info().
		Str("run_id", summary.RunID).
		Int("months", len(summary.Monthly)).
		Int("failed_months", len(summary.Failures)).
		Int64("discharges", summary.Totals.Discharges).
		Int("total_score", summary.Totals.TotalScore).
		Bool("memoized", memoized).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("indicator run complete")

	return summary, nil
}

func (p *Pipeline) cached(req Request) (*monthsResult, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	res, ok := p.memo[req.key()]
	return res, ok
}

// store memoizes res unless a month failed, so a transient source error is
// retried on the next run.
func (p *Pipeline) store(req Request, res *monthsResult) {
	if len(res.failures) > 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.memo[req.key()] = res
}

// computeMonths processes the requested months strictly in sequence.
func (p *Pipeline) computeMonths(ctx context.Context, log zerolog.Logger, req Request) (*monthsResult, error) {
	start := time.Now()
	res := &monthsResult{monthly: make([]model.MonthlySummary, 0, len(req.Months))}
	for _, m := range req.Months {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sum, failures := p.month(ctx, log.With().Int("month", m).Logger(), req, m)
		res.monthly = append(res.monthly, sum)
		res.failures = append(res.failures, failures...)
	}
	res.fetch = time.Since(start)

	log.Info().
		Int("months", len(res.monthly)).
		Int("failed_months", len(res.failures)).
		Str("duration", res.fetch.String()).
		Msg("months computed")
	return res, nil
}
