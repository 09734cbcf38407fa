package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gyeh/hospstats/internal/aggregate"
	"github.com/gyeh/hospstats/internal/capacity"
	"github.com/gyeh/hospstats/internal/model"
	"github.com/gyeh/hospstats/internal/source"
)

// Phases recorded on MonthFailure.
const (
	PhaseBeds            = "beds"
	PhaseHospitalization = "hospitalization"
	PhaseAggregate       = "aggregate"
)

// month computes one month. Bed inventory is read first, then the
// hospitalization extract. No error escapes: a failed read falls back to
// default capacity or zero figures and is reported as a MonthFailure.
func (p *Pipeline) month(ctx context.Context, log zerolog.Logger, req Request, month int) (sum model.MonthlySummary, failures []model.MonthFailure) {
	fail := func(phase string, err error) {
		log.Warn().Err(err).Str("group", phase).Msg("month degraded")
		failures = append(failures, model.MonthFailure{Year: req.Year, Month: month, Phase: phase, Err: err.Error()})
	}

	capRes := capacity.Defaults(req.Year, month, p.rules)
	beds, err := p.fetch(ctx, source.Request{Group: source.GroupBeds, Region: req.Region, Year: req.Year, Month: month})
	switch {
	case errors.Is(err, source.ErrNoFiles):
		log.Warn().Str("group", string(source.GroupBeds)).Msg("no bed inventory files, using default capacity")
	case err != nil:
		fail(PhaseBeds, err)
	default:
		capRes = capacity.Extract(beds, req.Facility, req.Year, month, p.rules)
		if !capRes.Resolved {
			log.Debug().Msg("bed inventory columns unresolved, using default capacity")
		}
	}
	if len(capRes.Defaulted) > 0 {
		log.Debug().Strs("defaulted", capRes.Defaulted).Msg("capacity defaults applied")
	}

	sum = model.MonthlySummary{Year: req.Year, Month: month, Sums: model.Sums{Capacity: capRes.Capacity}}

	rd, err := p.fetch(ctx, source.Request{Group: source.GroupHospitalization, Region: req.Region, Year: req.Year, Month: month})
	switch {
	case errors.Is(err, source.ErrNoFiles):
		log.Warn().Str("group", string(source.GroupHospitalization)).Msg("no hospitalization files, month left at zero")
		return sum, failures
	case err != nil:
		fail(PhaseHospitalization, err)
		return sum, failures
	}

	agg, err := p.aggregate(log, rd, req, month, capRes.Capacity)
	if err != nil {
		fail(PhaseAggregate, err)
		return sum, failures
	}
	log.Debug().
		Int("rows", rd.Len()).
		Int64("discharges", agg.Discharges).
		Int64("deaths", agg.Deaths).
		Msg("month aggregated")
	return agg, failures
}

// fetch calls the source, converting a panic in a decoder into an error.
func (p *Pipeline) fetch(ctx context.Context, req source.Request) (t *model.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read %s: panic: %v", req.Stem(), r)
		}
	}()
	return p.src.Fetch(ctx, req)
}

func (p *Pipeline) aggregate(log zerolog.Logger, rd *model.Table, req Request, month int, c model.Capacity) (sum model.MonthlySummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("aggregate %02d/%d: panic: %v", month, req.Year, r)
		}
	}()
	sum, cols := aggregate.Month(rd, req.Facility, req.Year, month, c, p.classifier, p.rules)
	if missing := cols.Missing(); len(missing) > 0 {
		log.Debug().Strs("fields", missing).Msg("hospitalization columns unresolved")
	}
	return sum, nil
}
