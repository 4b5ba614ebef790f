package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
)

// shared fakes for the use case tests

type fakeBarStore struct {
	bars    []models.Bar
	daily   []models.Bar
	err     error
	lastN   int
	lastTF  domrepo.Timeframe
	lastSym string
}

func (f *fakeBarStore) GetBars(_ context.Context, symbol string, _, _ time.Time, tf domrepo.Timeframe) ([]models.Bar, error) {
	f.lastSym, f.lastTF = symbol, tf
	return f.bars, f.err
}

func (f *fakeBarStore) GetLatestNBars(_ context.Context, symbol string, n int, tf domrepo.Timeframe) ([]models.Bar, error) {
	f.lastSym, f.lastN, f.lastTF = symbol, n, tf
	return f.bars, f.err
}

func (f *fakeBarStore) GetDailyBars(_ context.Context, symbol string, _ time.Time, _ int) ([]models.Bar, error) {
	f.lastSym = symbol
	return f.daily, f.err
}

var _ domrepo.BarStore = (*fakeBarStore)(nil)

type fakeHistory struct {
	bars  []models.Bar
	err   error
	calls int
}

func (f *fakeHistory) DailyBars(_ context.Context, _ string, _ time.Time, _ int) ([]models.Bar, error) {
	f.calls++
	return f.bars, f.err
}

var _ domrepo.BarHistory = (*fakeHistory)(nil)

type fakeLevelsCache struct {
	mu       sync.Mutex
	levels   map[string]*models.DailyLevels // symbol|date
	setups   map[string]*models.RangeSetup
	getErr   error
	setCalls int
}

func newFakeLevelsCache() *fakeLevelsCache {
	return &fakeLevelsCache{
		levels: make(map[string]*models.DailyLevels),
		setups: make(map[string]*models.RangeSetup),
	}
}

func levelsKey(symbol string, date time.Time) string {
	return symbol + "|" + date.UTC().Format("2006-01-02")
}

func (f *fakeLevelsCache) GetLevels(_ context.Context, symbol string, date time.Time) (*models.DailyLevels, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	lv, ok := f.levels[levelsKey(symbol, date)]
	return lv, ok, nil
}

func (f *fakeLevelsCache) SetLevels(_ context.Context, lv *models.DailyLevels) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	f.levels[levelsKey(lv.Symbol, lv.TradeDate)] = lv
	return nil
}

func (f *fakeLevelsCache) GetRangeSetup(_ context.Context, symbol string) (*models.RangeSetup, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	s, ok := f.setups[symbol]
	return s, ok, nil
}

func (f *fakeLevelsCache) SetRangeSetup(_ context.Context, setup *models.RangeSetup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setups[setup.Symbol] = setup
	return nil
}

var _ domrepo.LevelsCache = (*fakeLevelsCache)(nil)

type fakeMetrics struct {
	mu         sync.Mutex
	decisions  int
	alerts     int
	errs       map[string]int
	confidence []float64
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{errs: make(map[string]int)}
}

func (f *fakeMetrics) RecordDecision(string, string) {
	f.mu.Lock()
	f.decisions++
	f.mu.Unlock()
}

func (f *fakeMetrics) RecordAlert(string, string) {
	f.mu.Lock()
	f.alerts++
	f.mu.Unlock()
}

func (f *fakeMetrics) RecordError(kind string) {
	f.mu.Lock()
	f.errs[kind]++
	f.mu.Unlock()
}

func (f *fakeMetrics) RecordConfidence(_ string, c float64) {
	f.mu.Lock()
	f.confidence = append(f.confidence, c)
	f.mu.Unlock()
}

func (f *fakeMetrics) RecordLatency(string, float64) {}

var _ domrepo.Metrics = (*fakeMetrics)(nil)

type fakeDecisionStore struct {
	mu        sync.Mutex
	appended  []*models.Decision
	appendErr error
	stats     *models.DecisionStats
	aggErr    error
	lastFrom  time.Time
	lastTo    time.Time
}

func (f *fakeDecisionStore) Append(_ context.Context, d *models.Decision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, d)
	return nil
}

func (f *fakeDecisionStore) Aggregate(_ context.Context, symbol string, from, to time.Time) (*models.DecisionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFrom, f.lastTo = from, to
	if f.aggErr != nil {
		return nil, f.aggErr
	}
	if f.stats != nil {
		return f.stats, nil
	}
	return &models.DecisionStats{Symbol: symbol, From: from, To: to}, nil
}

func (f *fakeDecisionStore) Health(context.Context) error { return nil }
func (f *fakeDecisionStore) Close() error                 { return nil }

var _ domrepo.DecisionStore = (*fakeDecisionStore)(nil)

type fakeValidator struct {
	result models.ValidationResult
	entry  models.EntryContext
}

func (f *fakeValidator) Validate(models.Signal) models.ValidationResult { return f.result }

func (f *fakeValidator) ValidateWithLevels(models.Signal, *models.DailyLevels) (models.ValidationResult, models.EntryContext) {
	return f.result, f.entry
}

func (f *fakeValidator) ClassifyEntry(float64, *models.DailyLevels) models.EntryContext {
	return f.entry
}

type fakeRiskEvaluator struct {
	ctx models.RiskContext
}

func (f *fakeRiskEvaluator) Evaluate(*models.AccountState) models.RiskContext { return f.ctx }

type fakeDecider struct {
	verdict models.Verdict
}

func (f *fakeDecider) Decide(symbol string, v models.ValidationResult, ratio float64, risk models.RiskContext, event bool) models.Decision {
	return models.Decision{
		Symbol:        symbol,
		Verdict:       f.verdict,
		Confidence:    v.Confidence,
		RewardRatio:   ratio,
		Risk:          risk,
		HighRiskEvent: event,
		Timestamp:     time.Now().UTC(),
	}
}

type fakeSizer struct {
	err   error
	calls int
}

func (f *fakeSizer) Plan(symbol string, direction models.TradeDirection, entry, stop, equity, ratio float64) (models.TradePlan, error) {
	f.calls++
	if f.err != nil {
		return models.TradePlan{}, f.err
	}
	return models.TradePlan{
		Symbol:    symbol,
		Direction: direction,
		Entry:     decimal.NewFromFloat(entry),
		StopLoss:  decimal.NewFromFloat(stop),
		IsValid:   true,
	}, nil
}

type fakeAlertPublisher struct {
	mu        sync.Mutex
	published []*models.Alert
	err       error
	closed    bool
}

func (f *fakeAlertPublisher) Publish(_ context.Context, a *models.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, a)
	return nil
}

func (f *fakeAlertPublisher) PublishBatch(ctx context.Context, alerts []*models.Alert) error {
	for _, a := range alerts {
		if err := f.Publish(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAlertPublisher) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

var _ domrepo.AlertPublisher = (*fakeAlertPublisher)(nil)

// fakeDetector fires configurable rules so the scanner's state handling can
// be tested without real tolerance math.
type fakeDetector struct {
	fireRangeBreak bool
	breakDirection string
	fireRetest     bool
	pivotAlerts    []*models.Alert
	fireSweepAt    int // fire the sweep once this many closes accumulated, 0 = never
}

func (f *fakeDetector) CheckRangeBreak(setup models.RangeSetup, bar models.Bar) (*models.Alert, bool) {
	if !f.fireRangeBreak || setup.BrokenUp || setup.BrokenDown {
		return nil, false
	}
	return &models.Alert{
		Kind:      models.AlertRangeBreak,
		Symbol:    bar.Symbol,
		Price:     bar.Close,
		Direction: f.breakDirection,
		Timestamp: bar.Timestamp,
	}, true
}

func (f *fakeDetector) CheckRetest(setup models.RangeSetup, price float64, at models.Bar) (*models.Alert, bool) {
	if !f.fireRetest {
		return nil, false
	}
	return &models.Alert{Kind: models.AlertRetestTouch, Symbol: at.Symbol, Price: price, Timestamp: at.Timestamp}, true
}

func (f *fakeDetector) CheckPivotTouch(_ models.PivotLadder, _ models.Bar) []*models.Alert {
	return f.pivotAlerts
}

func (f *fakeDetector) CheckAsiaSweep(setup models.SweepSetup, closes []float64, at models.Bar) (*models.Alert, bool) {
	if f.fireSweepAt <= 0 || !setup.Breached || len(closes) < f.fireSweepAt {
		return nil, false
	}
	return &models.Alert{Kind: models.AlertAsiaSweep, Symbol: at.Symbol, Price: at.Close, Timestamp: at.Timestamp}, true
}

// hourlyBars builds n valid ascending bars ending at end with a flat price.
func hourlyBars(symbol string, n int, end time.Time, price float64) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		ts := end.Add(-time.Duration(n-1-i) * time.Hour)
		bars[i] = models.Bar{
			Timestamp: ts,
			Symbol:    symbol,
			Open:      price,
			High:      price + 1,
			Low:       price - 1,
			Close:     price,
			Volume:    1000,
		}
	}
	return bars
}

var errBoom = fmt.Errorf("boom")
