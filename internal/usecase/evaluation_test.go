package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/indicator"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/levels"
)

var evalEnd = time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)

// shortEngine keeps the lookback windows small so tests do not need 200 bars.
func shortEngine() *indicator.Engine {
	return indicator.NewEngine(indicator.Config{
		SMAPeriod: 3, EMAShort: 3, EMAMedium: 4, EMALong: 5,
		RSIPeriod: 3, ATRPeriod: 3,
		MACDFast: 3, MACDSlow: 5, MACDSignal: 3,
		BBPeriod: 3, BBStdDev: 2,
	})
}

type pipelineFixture struct {
	store    *fakeBarStore
	cache    *fakeLevelsCache
	decStore *fakeDecisionStore
	metrics  *fakeMetrics
	sizer    *fakeSizer
	pipe     *EvaluationPipeline
}

func newPipelineFixture(verdict models.Verdict) *pipelineFixture {
	store := &fakeBarStore{bars: hourlyBars("NQ", 30, evalEnd, 100)}
	cache := newFakeLevelsCache()
	cache.SetLevels(context.Background(), &models.DailyLevels{
		Symbol:         "NQ",
		TradeDate:      evalEnd.Truncate(24 * time.Hour),
		YesterdayHigh:  101,
		YesterdayLow:   99,
		YesterdayClose: 100,
	})
	decStore := &fakeDecisionStore{}
	metrics := newFakeMetrics()
	sizer := &fakeSizer{}
	lvl := NewLevelsUseCase(store, cache, levels.NewCalculator(), metrics)
	pipe := NewEvaluationPipeline(
		store, lvl, decStore, metrics,
		shortEngine(),
		&fakeValidator{result: models.ValidationResult{IsValid: true, Confidence: 0.8}},
		&fakeRiskEvaluator{ctx: models.RiskContext{Mode: models.RiskNormal, Allowed: true}},
		&fakeDecider{verdict: verdict},
		sizer,
	)
	return &pipelineFixture{store: store, cache: cache, decStore: decStore, metrics: metrics, sizer: sizer, pipe: pipe}
}

func TestEvaluateExecuteAttachesPlan(t *testing.T) {
	f := newPipelineFixture(models.VerdictExecute)
	out, err := f.pipe.Evaluate(context.Background(), EvaluateParams{
		Symbol:  "NQ",
		Account: &models.AccountState{Balance: 10000, Equity: 10000},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if out.Decision == nil || out.Decision.Verdict != models.VerdictExecute {
		t.Fatalf("want EXECUTE decision, got %+v", out.Decision)
	}
	if out.Plan == nil {
		t.Fatalf("executable decision must carry a plan, errors: %v", out.Errors)
	}
	if f.sizer.calls != 1 {
		t.Fatalf("sizer called %d times, want 1", f.sizer.calls)
	}
	if len(f.decStore.appended) != 1 {
		t.Fatalf("decision not persisted")
	}
	if out.Errors != nil {
		t.Fatalf("clean run must have nil errors, got %v", out.Errors)
	}
}

func TestEvaluateRejectSkipsPlan(t *testing.T) {
	f := newPipelineFixture(models.VerdictReject)
	out, err := f.pipe.Evaluate(context.Background(), EvaluateParams{
		Symbol:  "NQ",
		Account: &models.AccountState{Equity: 10000},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if out.Plan != nil {
		t.Fatalf("rejected decision must not be sized")
	}
	if f.sizer.calls != 0 {
		t.Fatalf("sizer must not be called on REJECT")
	}
}

func TestEvaluateDefaults(t *testing.T) {
	f := newPipelineFixture(models.VerdictWait)
	_, err := f.pipe.Evaluate(context.Background(), EvaluateParams{Symbol: "NQ", Timeframe: "2h"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if f.store.lastN != 250 {
		t.Fatalf("default N = %d, want 250", f.store.lastN)
	}
	if f.store.lastTF != domrepo.TF1h {
		t.Fatalf("invalid timeframe must fall back to 1h, got %s", f.store.lastTF)
	}

	_, err = f.pipe.Evaluate(context.Background(), EvaluateParams{Symbol: "NQ", N: 9000})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if f.store.lastN != 5000 {
		t.Fatalf("N should clamp to 5000, got %d", f.store.lastN)
	}
}

func TestEvaluateRequiresSymbol(t *testing.T) {
	f := newPipelineFixture(models.VerdictWait)
	if _, err := f.pipe.Evaluate(context.Background(), EvaluateParams{}); err == nil {
		t.Fatalf("empty symbol must be rejected")
	}
}

func TestEvaluateBarsFetchAborts(t *testing.T) {
	f := newPipelineFixture(models.VerdictWait)
	f.store.err = errBoom
	if _, err := f.pipe.Evaluate(context.Background(), EvaluateParams{Symbol: "NQ"}); err == nil {
		t.Fatalf("bar fetch failure must abort the run")
	}
	if f.metrics.errs["bars_fetch"] != 1 {
		t.Fatalf("bars_fetch error not recorded")
	}
}

func TestEvaluatePersistFailureDegrades(t *testing.T) {
	f := newPipelineFixture(models.VerdictWait)
	f.decStore.appendErr = errBoom
	out, err := f.pipe.Evaluate(context.Background(), EvaluateParams{Symbol: "NQ"})
	if err != nil {
		t.Fatalf("persist failure must not abort: %v", err)
	}
	if out.Errors["persist"] == "" {
		t.Fatalf("persist failure must be recorded in the outcome, got %v", out.Errors)
	}
	if out.Decision == nil {
		t.Fatalf("decision must survive a persist failure")
	}
}

func TestEvaluateMissingLevelsDegrades(t *testing.T) {
	f := newPipelineFixture(models.VerdictWait)
	f.cache.levels = map[string]*models.DailyLevels{} // force a miss; no daily bars either
	out, err := f.pipe.Evaluate(context.Background(), EvaluateParams{Symbol: "NQ"})
	if err != nil {
		t.Fatalf("missing levels must not abort: %v", err)
	}
	if out.Errors["levels"] == "" {
		t.Fatalf("levels degradation must be recorded, got %v", out.Errors)
	}
	if out.Decision == nil {
		t.Fatalf("decision must still be produced without levels")
	}
}

func TestEvaluateExecuteWithoutEquityDegrades(t *testing.T) {
	f := newPipelineFixture(models.VerdictExecute)
	out, err := f.pipe.Evaluate(context.Background(), EvaluateParams{Symbol: "NQ"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if out.Plan != nil {
		t.Fatalf("no equity, no plan")
	}
	if out.Errors["plan"] == "" {
		t.Fatalf("unsizeable plan must be recorded, got %v", out.Errors)
	}
}

// splitBarStore fails bar fetches for one symbol and serves the rest.
type splitBarStore struct {
	fakeBarStore
	fail string
}

func (s *splitBarStore) GetLatestNBars(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) ([]models.Bar, error) {
	if symbol == s.fail {
		return nil, errBoom
	}
	return hourlyBars(symbol, 30, evalEnd, 100), nil
}

func TestEvaluateManyIsolatesFailures(t *testing.T) {
	store := &splitBarStore{fail: "BAD"}
	cache := newFakeLevelsCache()
	metrics := newFakeMetrics()
	lvl := NewLevelsUseCase(store, cache, levels.NewCalculator(), metrics)
	pipe := NewEvaluationPipeline(
		store, lvl, &fakeDecisionStore{}, metrics,
		shortEngine(),
		&fakeValidator{result: models.ValidationResult{Confidence: 0.5}},
		&fakeRiskEvaluator{ctx: models.RiskContext{Mode: models.RiskNormal, Allowed: true}},
		&fakeDecider{verdict: models.VerdictWait},
		&fakeSizer{},
	)

	results := pipe.EvaluateMany(context.Background(), EvaluateParams{}, []string{"NQ", "BAD", "ES"})
	if len(results) != 3 {
		t.Fatalf("want 3 results, got %d", len(results))
	}
	if results["BAD"].Errors["evaluate"] == "" {
		t.Fatalf("failed symbol must carry its error")
	}
	for _, sym := range []string{"NQ", "ES"} {
		if results[sym].Decision == nil {
			t.Fatalf("%s must evaluate despite the failing sibling", sym)
		}
	}
}
