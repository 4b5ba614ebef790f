package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
	domsvc "github.com/umi1970/TradeMatrix-sub001/internal/domain/service"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/indicator"
)

// EvaluationPipeline wires the full decision chain for one instrument:
// bars -> indicators -> daily levels -> signal -> validation -> risk ->
// decision -> (position plan when executable). Each run produces one
// EvaluationOutcome and appends the decision for audit.
type EvaluationPipeline struct {
	bars    domrepo.BarStore
	levels  *LevelsUseCase
	store   domrepo.DecisionStore
	metrics domrepo.Metrics

	indicators *indicator.Engine
	validator  domsvc.SignalValidator
	risk       domsvc.RiskEvaluator
	decider    domsvc.DecisionMaker
	sizer      domsvc.PositionSizer

	avgVolumeWindow int
	defaultRatio    float64
	stopATRMult     float64
}

func NewEvaluationPipeline(
	bars domrepo.BarStore,
	lvl *LevelsUseCase,
	store domrepo.DecisionStore,
	metrics domrepo.Metrics,
	indicators *indicator.Engine,
	validator domsvc.SignalValidator,
	risk domsvc.RiskEvaluator,
	decider domsvc.DecisionMaker,
	sizer domsvc.PositionSizer,
) *EvaluationPipeline {
	return &EvaluationPipeline{
		bars:            bars,
		levels:          lvl,
		store:           store,
		metrics:         metrics,
		indicators:      indicators,
		validator:       validator,
		risk:            risk,
		decider:         decider,
		sizer:           sizer,
		avgVolumeWindow: 20,
		defaultRatio:    2.0,
		stopATRMult:     1.5,
	}
}

type EvaluateParams struct {
	Symbol        string
	Direction     models.TradeDirection
	Strategy      string
	N             int
	Timeframe     domrepo.Timeframe
	HighRiskEvent bool
	RewardRatio   float64
	Account       *models.AccountState
}

// Evaluate runs the full chain for one instrument. Infrastructure errors on
// the bar fetch or indicator computation abort the run; downstream
// degradations (missing levels, persistence failure, unsizeable plan) are
// recorded in the outcome's Errors map and the run continues.
func (p *EvaluationPipeline) Evaluate(ctx context.Context, params EvaluateParams) (*models.EvaluationOutcome, error) {
	if params.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if params.Direction != models.DirectionShort {
		params.Direction = models.DirectionLong
	}
	if params.N <= 0 {
		params.N = 250
	}
	if params.N > 5000 {
		params.N = 5000
	}
	if !domrepo.IsValidTimeframe(params.Timeframe) {
		params.Timeframe = domrepo.DefaultTimeframe()
	}
	if params.RewardRatio <= 0 {
		params.RewardRatio = p.defaultRatio
	}

	start := time.Now()
	out := &models.EvaluationOutcome{
		Symbol:    params.Symbol,
		Timestamp: time.Now().UTC(),
		Errors:    map[string]string{},
	}

	bars, err := p.bars.GetLatestNBars(ctx, params.Symbol, params.N, params.Timeframe)
	if err != nil {
		p.metrics.RecordError("bars_fetch")
		return nil, fmt.Errorf("get bars: %w", err)
	}
	set, err := p.indicators.Compute(bars)
	if err != nil {
		p.metrics.RecordError("indicators")
		return nil, fmt.Errorf("indicators: %w", err)
	}
	last := bars[len(bars)-1]

	lv := p.levelsFor(ctx, params.Symbol, last.Timestamp, out)

	sig := p.buildSignal(params, bars, set, lv)

	res, entry := p.validator.ValidateWithLevels(sig, lv)
	out.Validation = &res
	out.Entry = &entry
	p.metrics.RecordConfidence(params.Symbol, res.Confidence)

	riskCtx := p.risk.Evaluate(params.Account)
	out.Risk = &riskCtx

	dec := p.decider.Decide(params.Symbol, res, params.RewardRatio, riskCtx, params.HighRiskEvent)
	out.Decision = &dec
	p.metrics.RecordDecision(params.Symbol, string(dec.Verdict))

	if err := p.store.Append(ctx, &dec); err != nil {
		p.metrics.RecordError("decision_append")
		out.Errors["persist"] = err.Error()
	}

	if dec.Verdict == models.VerdictExecute || dec.Verdict == models.VerdictReduce {
		p.attachPlan(params, sig, set, out)
	}

	p.metrics.RecordLatency("evaluate", time.Since(start).Seconds())
	if len(out.Errors) == 0 {
		out.Errors = nil
	}
	return out, nil
}

// levelsFor resolves the DailyLevels for the trade date. Returns nil when
// levels cannot be derived; the caller degrades gracefully.
func (p *EvaluationPipeline) levelsFor(ctx context.Context, symbol string, at time.Time, out *models.EvaluationOutcome) *models.DailyLevels {
	lv, err := p.levels.Resolve(ctx, symbol, at)
	if err != nil {
		out.Errors["levels"] = err.Error()
		return nil
	}
	return lv
}

func (p *EvaluationPipeline) buildSignal(params EvaluateParams, bars []models.Bar, set models.IndicatorSet, lv *models.DailyLevels) models.Signal {
	last := bars[len(bars)-1]
	price := last.Close
	ema20 := set.Last(models.KeyEMA20)
	ema50 := set.Last(models.KeyEMA50)
	ema200 := set.Last(models.KeyEMA200)

	var ladder models.PivotLadder
	if lv != nil {
		if pv, err := p.levels.Ladder(lv); err == nil {
			ladder = pv
		}
	}

	atr := set.Last(models.KeyATR14)
	if math.IsNaN(atr) {
		atr = 0
	}

	return models.Signal{
		Symbol:        params.Symbol,
		Timestamp:     last.Timestamp,
		Direction:     params.Direction,
		Strategy:      params.Strategy,
		Price:         price,
		EMA20:         ema20,
		EMA50:         ema50,
		EMA200:        ema200,
		Pivots:        ladder,
		Volume:        last.Volume,
		AverageVolume: avgVolume(bars, p.avgVolumeWindow),
		LastBar:       last,
		Context: models.SignalContext{
			Trend:      indicator.ClassifyTrend(price, ema20, ema50, ema200),
			Volatility: atr,
		},
	}
}

// attachPlan sizes the trade for an executable decision. The stop is placed
// an ATR multiple away from entry; without a usable ATR no plan is produced.
func (p *EvaluationPipeline) attachPlan(params EvaluateParams, sig models.Signal, set models.IndicatorSet, out *models.EvaluationOutcome) {
	if params.Account == nil || params.Account.Equity <= 0 {
		out.Errors["plan"] = "no account equity available for sizing"
		return
	}
	atr := set.Last(models.KeyATR14)
	if math.IsNaN(atr) || atr <= 0 {
		out.Errors["plan"] = "no ATR available for stop placement"
		return
	}
	stop := sig.Price - p.stopATRMult*atr
	if params.Direction == models.DirectionShort {
		stop = sig.Price + p.stopATRMult*atr
	}
	plan, err := p.sizer.Plan(params.Symbol, params.Direction, sig.Price, stop, params.Account.Equity, params.RewardRatio)
	if err != nil {
		p.metrics.RecordError("plan")
		out.Errors["plan"] = err.Error()
		return
	}
	out.Plan = &plan
}

func avgVolume(bars []models.Bar, window int) float64 {
	if len(bars) == 0 {
		return 0
	}
	if window <= 0 || window > len(bars) {
		window = len(bars)
	}
	var sum int64
	for _, b := range bars[len(bars)-window:] {
		sum += b.Volume
	}
	return float64(sum) / float64(window)
}

// EvaluateMany runs the pipeline for several instruments concurrently.
// Failures are isolated per instrument; one bad symbol never blocks the rest.
func (p *EvaluationPipeline) EvaluateMany(ctx context.Context, base EvaluateParams, symbols []string) map[string]*models.EvaluationOutcome {
	type item struct {
		symbol string
		out    *models.EvaluationOutcome
		err    error
	}
	ch := make(chan item, len(symbols))
	var wg sync.WaitGroup

	for _, sym := range symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			params := base
			params.Symbol = sym
			out, err := p.Evaluate(ctx, params)
			ch <- item{sym, out, err}
		}(sym)
	}
	go func() { wg.Wait(); close(ch) }()

	results := make(map[string]*models.EvaluationOutcome, len(symbols))
	for it := range ch {
		if it.err != nil {
			results[it.symbol] = &models.EvaluationOutcome{
				Symbol:    it.symbol,
				Timestamp: time.Now().UTC(),
				Errors:    map[string]string{"evaluate": it.err.Error()},
			}
			continue
		}
		results[it.symbol] = it.out
	}
	return results
}
