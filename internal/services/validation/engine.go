// Package validation scores candidate signals into a confidence value and a
// pass/fail verdict.
package validation

import (
	"fmt"
	"math"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/indicator"
)

// Sub-metric weights. The confidence score is a fixed convex combination of
// the five sub-metrics; weights sum to 1.
const (
	weightEMAAlignment    = 0.25
	weightPivotConfluence = 0.20
	weightVolume          = 0.20
	weightCandle          = 0.20
	weightContext         = 0.15

	priorityBonus = 0.05
)

// Config holds the validation tunables. Immutable after construction.
type Config struct {
	Threshold          float64  // is_valid cutoff, default 0.75
	PriorityStrategies []string // strategy codes granted the priority bonus
	PivotTolerancePct  float64  // full-score band around a pivot level, default 0.1
	PivotRangePct      float64  // zero-score distance, default 1.0
	ExtremeVolPct      float64  // volatility/price ratio that caps context flow, default 3.0
	EntryBoost         float64  // boost for breakout/sweep entry context, default 0.05
}

// Engine validates signals. Deterministic given identical inputs; no hidden
// state, no randomness. Safe for concurrent use.
type Engine struct {
	cfg      Config
	priority map[string]struct{}
}

// NewEngine creates an Engine, filling zero config fields with defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		cfg.Threshold = 0.75
	}
	if cfg.PivotTolerancePct <= 0 {
		cfg.PivotTolerancePct = 0.1
	}
	if cfg.PivotRangePct <= cfg.PivotTolerancePct {
		cfg.PivotRangePct = 1.0
	}
	if cfg.ExtremeVolPct <= 0 {
		cfg.ExtremeVolPct = 3.0
	}
	if cfg.EntryBoost <= 0 {
		cfg.EntryBoost = 0.05
	}
	prio := make(map[string]struct{}, len(cfg.PriorityStrategies))
	for _, s := range cfg.PriorityStrategies {
		prio[s] = struct{}{}
	}
	return &Engine{cfg: cfg, priority: prio}
}

// Threshold returns the configured is_valid cutoff.
func (e *Engine) Threshold() float64 { return e.cfg.Threshold }

// Validate scores sig. Confidence is always in [0,1]; is_valid holds exactly
// when confidence >= threshold. Allow-listed strategies receive a fixed bonus
// (capped at 1.0) and always set priority_override, whether or not the bonus
// lifts the score over the threshold.
func (e *Engine) Validate(sig models.Signal) models.ValidationResult {
	breakdown := map[string]float64{
		"ema_alignment":    e.scoreEMAAlignment(sig),
		"pivot_confluence": e.scorePivotConfluence(sig),
		"volume":           e.scoreVolume(sig),
		"candle":           e.scoreCandle(sig),
		"context":          e.scoreContext(sig),
	}

	confidence := weightEMAAlignment*breakdown["ema_alignment"] +
		weightPivotConfluence*breakdown["pivot_confluence"] +
		weightVolume*breakdown["volume"] +
		weightCandle*breakdown["candle"] +
		weightContext*breakdown["context"]

	res := models.ValidationResult{Breakdown: breakdown}
	if _, ok := e.priority[sig.Strategy]; ok && sig.Strategy != "" {
		confidence += priorityBonus
		res.PriorityOverride = true
		res.Notes = append(res.Notes, fmt.Sprintf("priority strategy %q: +%.2f", sig.Strategy, priorityBonus))
	}
	res.Confidence = clamp01(confidence)
	res.IsValid = res.Confidence >= e.cfg.Threshold
	return res
}

// ValidateWithLevels scores sig and folds in the entry-context boost derived
// from the prior day's levels. A nil levels snapshot degrades to an unknown
// context with zero boost and an explicit note; it never raises.
func (e *Engine) ValidateWithLevels(sig models.Signal, lv *models.DailyLevels) (models.ValidationResult, models.EntryContext) {
	res := e.Validate(sig)
	ec := e.ClassifyEntry(sig.Price, lv)
	if ec.Boost > 0 {
		res.Confidence = clamp01(res.Confidence + ec.Boost)
		res.IsValid = res.Confidence >= e.cfg.Threshold
	}
	res.Notes = append(res.Notes, fmt.Sprintf("entry context: %s", ec.Kind))
	if ec.Note != "" {
		res.Notes = append(res.Notes, ec.Note)
	}
	return res, ec
}

// ClassifyEntry classifies an entry price against the prior day's high/low.
func (e *Engine) ClassifyEntry(price float64, lv *models.DailyLevels) models.EntryContext {
	if lv == nil || lv.YesterdayHigh <= 0 || lv.YesterdayLow <= 0 {
		return models.EntryContext{Kind: models.EntryUnknown, Note: "daily levels unavailable"}
	}
	switch {
	case price > lv.YesterdayHigh:
		return models.EntryContext{Kind: models.EntryBreakout, Boost: e.cfg.EntryBoost}
	case price < lv.YesterdayLow:
		return models.EntryContext{Kind: models.EntryLiquiditySweep, Boost: e.cfg.EntryBoost}
	default:
		return models.EntryContext{Kind: models.EntryRangeBound}
	}
}

// scoreEMAAlignment grades the price/EMA20/EMA50/EMA200 ordering in the
// trade's direction: 1.0 for perfect monotonic alignment, one third per
// satisfied link otherwise. NaN EMAs score zero.
func (e *Engine) scoreEMAAlignment(sig models.Signal) float64 {
	if math.IsNaN(sig.EMA20) || math.IsNaN(sig.EMA50) || math.IsNaN(sig.EMA200) {
		return 0
	}
	var links [3]bool
	if sig.Direction == models.DirectionShort {
		links[0] = sig.Price < sig.EMA20
		links[1] = sig.EMA20 < sig.EMA50
		links[2] = sig.EMA50 < sig.EMA200
	} else {
		links[0] = sig.Price > sig.EMA20
		links[1] = sig.EMA20 > sig.EMA50
		links[2] = sig.EMA50 > sig.EMA200
	}
	n := 0
	for _, ok := range links {
		if ok {
			n++
		}
	}
	return float64(n) / 3
}

// scorePivotConfluence rates proximity to the nearest ladder level: 1.0
// within the tolerance band, linear decay to 0 at the configured range.
func (e *Engine) scorePivotConfluence(sig models.Signal) float64 {
	if sig.Price <= 0 {
		return 0
	}
	nearest := math.Inf(1)
	for _, level := range sig.Pivots.Levels() {
		if level <= 0 {
			continue
		}
		d := math.Abs(sig.Price-level) / sig.Price * 100
		if d < nearest {
			nearest = d
		}
	}
	if math.IsInf(nearest, 1) {
		return 0
	}
	if nearest <= e.cfg.PivotTolerancePct {
		return 1
	}
	if nearest >= e.cfg.PivotRangePct {
		return 0
	}
	return 1 - (nearest-e.cfg.PivotTolerancePct)/(e.cfg.PivotRangePct-e.cfg.PivotTolerancePct)
}

// scoreVolume maps current/average volume through a saturating ramp:
// >=2x -> 1.0, 1.5x -> 0.8, 1.0x -> 0.5, below 1.0x proportionally low.
func (e *Engine) scoreVolume(sig models.Signal) float64 {
	if sig.AverageVolume <= 0 {
		return 0.5 // no baseline to compare against
	}
	ratio := float64(sig.Volume) / sig.AverageVolume
	switch {
	case ratio >= 2.0:
		return 1.0
	case ratio >= 1.5:
		return 0.8 + (ratio-1.5)*0.4
	case ratio >= 1.0:
		return 0.5 + (ratio-1.0)*0.6
	default:
		return clamp01(ratio * 0.5)
	}
}

// scoreCandle rates the latest candle's structure for the trade's direction.
// Clean directional patterns (hammer / shooting star, strong momentum bodies)
// score high; doji-like indecision scores low.
func (e *Engine) scoreCandle(sig models.Signal) float64 {
	bar := sig.LastBar
	rng := bar.Range()
	if rng <= 0 {
		return 0.2
	}
	body := bar.Body() / rng
	upperWick := (bar.High - math.Max(bar.Open, bar.Close)) / rng
	lowerWick := (math.Min(bar.Open, bar.Close) - bar.Low) / rng

	if sig.Direction == models.DirectionShort {
		upperWick, lowerWick = lowerWick, upperWick
	}

	// Rejection pattern: small body, long wick against the trade direction.
	if body <= 0.3 && lowerWick >= 0.6 && upperWick <= 0.1 {
		return 1.0
	}
	if body <= 0.35 && lowerWick >= 0.5 {
		return 0.8
	}

	// Momentum candle closing in the trade's direction.
	closedWith := bar.Bullish() == (sig.Direction != models.DirectionShort)
	if body >= 0.7 && closedWith {
		return 0.8
	}
	if body >= 0.5 && closedWith {
		return 0.6
	}

	// Doji-like indecision.
	if body <= 0.1 {
		return 0.2
	}
	return 0.4
}

// scoreContext combines the trend label and volatility into a bounded score.
// A matching trend raises it; extreme volatility caps it down.
func (e *Engine) scoreContext(sig models.Signal) float64 {
	var score float64
	switch sig.Context.Trend {
	case indicator.TrendBullish:
		if sig.Direction == models.DirectionShort {
			score = 0.2
		} else {
			score = 0.9
		}
	case indicator.TrendBearish:
		if sig.Direction == models.DirectionShort {
			score = 0.9
		} else {
			score = 0.2
		}
	default:
		score = 0.5
	}

	if sig.Price > 0 && sig.Context.Volatility > 0 {
		volPct := sig.Context.Volatility / sig.Price * 100
		if volPct >= e.cfg.ExtremeVolPct && score > 0.4 {
			score = 0.4
		}
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
