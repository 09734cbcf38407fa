package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gyeh/hospstats/internal/config"
	"github.com/gyeh/hospstats/internal/model"
	"github.com/gyeh/hospstats/internal/source"
)

// fakeSource serves tables by file stem. Stems listed in errs fail with that
// error, stems in panics panic, anything else is ErrNoFiles.
type fakeSource struct {
	mu     sync.Mutex
	tables map[string]*model.Table
	errs   map[string]error
	panics map[string]bool
	calls  []string
}

func (f *fakeSource) Fetch(_ context.Context, req source.Request) (*model.Table, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.Stem())
	f.mu.Unlock()
	if f.panics[req.Stem()] {
		panic("corrupt page header")
	}
	if err, ok := f.errs[req.Stem()]; ok {
		return nil, err
	}
	if t, ok := f.tables[req.Stem()]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%s: %w", req.Stem(), source.ErrNoFiles)
}

func table(header []string, rows ...[]string) *model.Table {
	t := model.NewTable(header)
	t.Rows = rows
	return t
}

var (
	rdHeader = []string{"CNES", "PROC_REA", "DIAS_PERM", "MORTE", "UTI_MES_TO", "IDADE", "COD_IDADE", "MARCA_UTI"}
	ltHeader = []string{"CNES", "CODLEITO", "QT_EXIST"}
)

func newFixtureSource() *fakeSource {
	return &fakeSource{
		tables: map[string]*model.Table{
			"LTSP2505": table(ltHeader,
				[]string{"2142376", "03", "80"},
				[]string{"2142376", "74", "10"},
			),
			"RDSP2505": table(rdHeader,
				[]string{"2142376", "0303010037", "5", "1", "0", "70", "4", ""},
				[]string{"2142376", "0415010012", "3", "0", "2", "40", "4", "74"},
				[]string{"0999999", "0303010037", "9", "1", "0", "70", "4", ""},
			),
			"RDSP2506": table(rdHeader,
				[]string{"2142376", "0303010037", "4", "0", "0", "30", "4", ""},
			),
		},
	}
}

func newPipeline(t *testing.T, src source.Provider) *Pipeline {
	t.Helper()
	p, err := New(src, config.DefaultRules(), zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestRun_MonthlyAndTotals(t *testing.T) {
	p := newPipeline(t, newFixtureSource())
	infection := []model.InfectionEntry{{Year: 2025, Month: 5, Cases: 2, CatheterDays: 1000}}

	sum, err := p.Run(context.Background(), Request{Region: "sp", Facility: "2142376", Year: 2025, Months: []int{6, 5}}, infection)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.RunID == "" {
		t.Error("run id not set")
	}
	if len(sum.Monthly) != 2 || sum.Monthly[0].Month != 5 || sum.Monthly[1].Month != 6 {
		t.Fatalf("monthly = %+v", sum.Monthly)
	}
	may := sum.Monthly[0]
	if may.Discharges != 2 || may.Deaths != 1 || may.GeneralDays != 6 || may.AdultICUDays != 2 {
		t.Errorf("may = %+v", may.Sums)
	}
	if may.GeneralBedDays != 80*31 || may.AdultICUBedDays != 10*31 {
		t.Errorf("may capacity = %+v", may.Capacity)
	}
	if may.InfectionCases != 2 || may.CatheterDays != 1000 {
		t.Errorf("may infection = %d/%d", may.InfectionCases, may.CatheterDays)
	}

	june := sum.Monthly[1]
	// No LT file for June: default general beds, no ICU beds.
	if june.GeneralBedDays != 100*30 || june.AdultICUBedDays != 0 {
		t.Errorf("june capacity = %+v", june.Capacity)
	}
	if june.Discharges != 1 {
		t.Errorf("june discharges = %d", june.Discharges)
	}

	if sum.Totals.Discharges != 3 || sum.Totals.Deaths != 1 {
		t.Errorf("totals = %+v", sum.Totals.Sums)
	}
	if r := sum.Totals.Result(model.InfectionDensity); r.Rate != 2 || r.Score != 6 {
		t.Errorf("infection density = %+v", r)
	}
	if len(sum.Failures) != 0 {
		t.Errorf("failures = %+v", sum.Failures)
	}
}

func TestRun_SequentialBedsThenHospitalization(t *testing.T) {
	src := newFixtureSource()
	p := newPipeline(t, src)
	if _, err := p.Run(context.Background(), Request{Region: "SP", Facility: "2142376", Year: 2025, Months: []int{5, 6}}, nil); err != nil {
		t.Fatal(err)
	}
	want := []string{"LTSP2505", "RDSP2505", "LTSP2506", "RDSP2506"}
	if !reflect.DeepEqual(src.calls, want) {
		t.Errorf("calls = %v, want %v", src.calls, want)
	}
}

func TestRun_FailedMonthStillPresent(t *testing.T) {
	src := newFixtureSource()
	src.errs = map[string]error{"RDSP2506": errors.New("connection reset")}
	src.panics = map[string]bool{"LTSP2507": true}
	p := newPipeline(t, src)

	sum, err := p.Run(context.Background(), Request{Region: "SP", Facility: "2142376", Year: 2025, Months: []int{5, 6, 7, 8}}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sum.Monthly) != 4 {
		t.Fatalf("monthly rows = %d, want 4", len(sum.Monthly))
	}
	if len(sum.Failures) != 2 {
		t.Fatalf("failures = %+v", sum.Failures)
	}
	if f := sum.Failures[0]; f.Month != 6 || f.Phase != PhaseHospitalization {
		t.Errorf("first failure = %+v", f)
	}
	if f := sum.Failures[1]; f.Month != 7 || f.Phase != PhaseBeds {
		t.Errorf("second failure = %+v", f)
	}
	june := sum.Monthly[1]
	if june.Discharges != 0 || june.GeneralBedDays != 100*30 {
		t.Errorf("june = %+v", june.Sums)
	}
	if sum.Monthly[2].GeneralBedDays != 100*31 {
		t.Errorf("july capacity should fall back to defaults: %+v", sum.Monthly[2].Capacity)
	}
}

func TestRun_Memoized(t *testing.T) {
	src := newFixtureSource()
	p := newPipeline(t, src)
	req := Request{Region: "SP", Facility: "2142376", Year: 2025, Months: []int{5, 6}}

	first, err := p.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatal(err)
	}
	calls := len(src.calls)

	// Same request spelled differently hits the memo.
	second, err := p.Run(context.Background(), Request{Region: "sp", Facility: "02142376", Year: 2025, Months: []int{6, 5, 5}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(src.calls) != calls {
		t.Errorf("source called again: %v", src.calls[calls:])
	}
	if !second.Memoized || first.Memoized {
		t.Errorf("memoized flags = %v, %v", first.Memoized, second.Memoized)
	}
	if !reflect.DeepEqual(first.Monthly, second.Monthly) || !reflect.DeepEqual(first.Totals, second.Totals) {
		t.Error("memoized run differs from the first run")
	}
	if first.RunID == second.RunID {
		t.Error("run ids should differ per run")
	}
}

func TestRun_RecomputeIsIdentical(t *testing.T) {
	req := Request{Region: "SP", Facility: "2142376", Year: 2025, Months: []int{5, 6}}
	infection := []model.InfectionEntry{{Month: 5, Cases: 1, CatheterDays: 400}}

	var runs []*model.RunSummary
	for i := 0; i < 2; i++ {
		sum, err := newPipeline(t, newFixtureSource()).Run(context.Background(), req, infection)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if sum.Memoized {
			t.Fatalf("run %d served from cache", i)
		}
		runs = append(runs, sum)
	}
	if !reflect.DeepEqual(runs[0].Monthly, runs[1].Monthly) {
		t.Errorf("monthly differs:\n%+v\n%+v", runs[0].Monthly, runs[1].Monthly)
	}
	if !reflect.DeepEqual(runs[0].Totals, runs[1].Totals) {
		t.Errorf("totals differ:\n%+v\n%+v", runs[0].Totals, runs[1].Totals)
	}
}

func TestRun_FailedMonthRecomputesIdentically(t *testing.T) {
	src := newFixtureSource()
	src.errs = map[string]error{"RDSP2505": errors.New("timeout")}
	p := newPipeline(t, src)
	req := Request{Region: "SP", Facility: "2142376", Year: 2025, Months: []int{5, 6}}

	a, err := p.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Memoized || b.Memoized {
		t.Fatal("runs with a failed month must not be served from cache")
	}
	if !reflect.DeepEqual(a.Monthly, b.Monthly) || !reflect.DeepEqual(a.Totals, b.Totals) || !reflect.DeepEqual(a.Failures, b.Failures) {
		t.Error("failed runs differ between recomputes")
	}

	// Once the source recovers, the retried run matches a clean pipeline.
	delete(src.errs, "RDSP2505")
	retried, err := p.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatal(err)
	}
	clean, err := newPipeline(t, newFixtureSource()).Run(context.Background(), req, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(retried.Failures) != 0 || retried.Memoized {
		t.Errorf("retried run: failures=%+v memoized=%v", retried.Failures, retried.Memoized)
	}
	if !reflect.DeepEqual(retried.Monthly, clean.Monthly) || !reflect.DeepEqual(retried.Totals, clean.Totals) {
		t.Error("retried run differs from a clean run")
	}
}

func TestRun_FailuresNotMemoized(t *testing.T) {
	src := newFixtureSource()
	src.errs = map[string]error{"RDSP2505": errors.New("timeout")}
	p := newPipeline(t, src)
	req := Request{Region: "SP", Facility: "2142376", Year: 2025, Months: []int{5}}

	if _, err := p.Run(context.Background(), req, nil); err != nil {
		t.Fatal(err)
	}
	delete(src.errs, "RDSP2505")
	sum, err := p.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Memoized || sum.Monthly[0].Discharges != 2 {
		t.Errorf("second run should recompute: memoized=%v discharges=%d", sum.Memoized, sum.Monthly[0].Discharges)
	}
}

func TestRun_InfectionNotMemoized(t *testing.T) {
	p := newPipeline(t, newFixtureSource())
	req := Request{Region: "SP", Facility: "2142376", Year: 2025, Months: []int{5}}

	a, err := p.Run(context.Background(), req, []model.InfectionEntry{{Month: 5, Cases: 1, CatheterDays: 100}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Totals.InfectionCases != 1 || b.Totals.InfectionCases != 0 {
		t.Errorf("infection cases = %d, %d", a.Totals.InfectionCases, b.Totals.InfectionCases)
	}
}

func TestRun_InvalidRequest(t *testing.T) {
	p := newPipeline(t, newFixtureSource())
	tests := []struct {
		name string
		req  Request
	}{
		{"no months", Request{Region: "SP", Facility: "1", Year: 2025}},
		{"month out of range", Request{Region: "SP", Facility: "1", Year: 2025, Months: []int{13}}},
		{"no facility", Request{Region: "SP", Year: 2025, Months: []int{1}}},
		{"no region", Request{Facility: "1", Year: 2025, Months: []int{1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Run(context.Background(), tt.req, nil)
			var pe *PipelineError
			if !errors.As(err, &pe) || pe.Phase != "request" {
				t.Errorf("err = %v, want request PipelineError", err)
			}
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	p := newPipeline(t, newFixtureSource())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Run(ctx, Request{Region: "SP", Facility: "2142376", Year: 2025, Months: []int{5}}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRun_UnresolvedColumnsLogCarriesRunFields(t *testing.T) {
	src := &fakeSource{tables: map[string]*model.Table{
		"RDSP2505": table([]string{"CNES", "MORTE"}, []string{"2142376", "1"}),
	}}
	var buf bytes.Buffer
	p, err := New(src, config.DefaultRules(), zerolog.New(&buf).Level(zerolog.DebugLevel))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Run(context.Background(), Request{Region: "SP", Facility: "2142376", Year: 2025, Months: []int{5}}, nil); err != nil {
		t.Fatal(err)
	}

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		if entry["message"] != "hospitalization columns unresolved" {
			continue
		}
		if entry["region"] != "SP" || entry["facility"] != "2142376" || entry["year"] != float64(2025) || entry["month"] != float64(5) {
			t.Errorf("log entry missing run fields: %v", entry)
		}
		return
	}
	t.Fatalf("no unresolved-columns entry in log:\n%s", buf.String())
}

func TestNew_InvalidRules(t *testing.T) {
	rules := config.DefaultRules()
	rules.ICU.Markers.Neonatal = append(rules.ICU.Markers.Neonatal, "74")
	_, err := New(newFixtureSource(), rules, zerolog.Nop())
	var pe *PipelineError
	if !errors.As(err, &pe) || pe.Phase != "rules" {
		t.Errorf("err = %v, want rules PipelineError", err)
	}
}
