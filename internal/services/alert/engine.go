// Package alert watches incoming bars against previously established levels
// and setups and emits discrete alert events.
//
// Every comparison uses an explicit numeric tolerance. Rules are evaluated
// independently per bar; several may fire for the same bar. Deduplication
// across bars and cool-downs belong to the dispatch collaborator.
package alert

import (
	"math"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
)

// Config holds the detection tolerances.
type Config struct {
	RetestTolerancePct float64 // default 0.1 (percent)
	PivotTolerancePct  float64 // default 0.05 (percent)
	SweepConfirmCloses int     // trailing closes needed back above the low, default 3
}

// Engine evaluates alert rules. Stateless; safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine, filling zero config fields with defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.RetestTolerancePct <= 0 {
		cfg.RetestTolerancePct = 0.1
	}
	if cfg.PivotTolerancePct <= 0 {
		cfg.PivotTolerancePct = 0.05
	}
	if cfg.SweepConfirmCloses <= 0 {
		cfg.SweepConfirmCloses = 3
	}
	return &Engine{cfg: cfg}
}

// CheckRangeBreak fires when the bar closes outside the established range:
// above the high (bullish) or below the low (bearish).
func (e *Engine) CheckRangeBreak(setup models.RangeSetup, bar models.Bar) (*models.Alert, bool) {
	if setup.High <= setup.Low {
		return nil, false
	}
	switch {
	case bar.Close > setup.High:
		return &models.Alert{
			Kind:      models.AlertRangeBreak,
			Symbol:    setup.Symbol,
			Price:     bar.Close,
			Levels:    []float64{setup.High},
			Direction: "bullish",
			Timestamp: bar.Timestamp,
		}, true
	case bar.Close < setup.Low:
		return &models.Alert{
			Kind:      models.AlertRangeBreak,
			Symbol:    setup.Symbol,
			Price:     bar.Close,
			Levels:    []float64{setup.Low},
			Direction: "bearish",
			Timestamp: bar.Timestamp,
		}, true
	}
	return nil, false
}

// CheckRetest fires when price returns to within tolerance of the broken
// range edge. Only checked after a break has been recorded for the setup.
func (e *Engine) CheckRetest(setup models.RangeSetup, price float64, at models.Bar) (*models.Alert, bool) {
	var edge string
	var level float64
	switch {
	case setup.BrokenUp:
		edge, level = "bullish", setup.High
	case setup.BrokenDown:
		edge, level = "bearish", setup.Low
	default:
		return nil, false
	}
	if level <= 0 {
		return nil, false
	}
	if math.Abs(price-level)/level*100 > e.cfg.RetestTolerancePct {
		return nil, false
	}
	return &models.Alert{
		Kind:      models.AlertRetestTouch,
		Symbol:    setup.Symbol,
		Price:     price,
		Levels:    []float64{level},
		Direction: edge,
		Timestamp: at.Timestamp,
	}, true
}

// CheckPivotTouch fires for each of pivot, R1 and S1 whose tolerance band
// the bar's [low,high] interval intersects.
func (e *Engine) CheckPivotTouch(ladder models.PivotLadder, bar models.Bar) []*models.Alert {
	checks := []struct {
		kind  models.AlertKind
		level float64
	}{
		{models.AlertPivotTouch, ladder.Pivot},
		{models.AlertR1Touch, ladder.R1},
		{models.AlertS1Touch, ladder.S1},
	}
	var out []*models.Alert
	for _, c := range checks {
		if c.level <= 0 {
			continue
		}
		band := c.level * e.cfg.PivotTolerancePct / 100
		if bar.Low <= c.level+band && bar.High >= c.level-band {
			out = append(out, &models.Alert{
				Kind:      c.kind,
				Symbol:    bar.Symbol,
				Price:     bar.Close,
				Levels:    []float64{c.level},
				Timestamp: bar.Timestamp,
			})
		}
	}
	return out
}

// CheckAsiaSweep confirms a sweep of the designated prior low: the low must
// have been breached intrabar by the monitoring window AND the trailing
// closes must all sit back above it. Absence of either suppresses the alert.
func (e *Engine) CheckAsiaSweep(setup models.SweepSetup, closes []float64, at models.Bar) (*models.Alert, bool) {
	if !setup.Breached || setup.AsiaLow <= 0 {
		return nil, false
	}
	if len(closes) < e.cfg.SweepConfirmCloses {
		return nil, false
	}
	trailing := closes[len(closes)-e.cfg.SweepConfirmCloses:]
	for _, c := range trailing {
		if c <= setup.AsiaLow {
			return nil, false
		}
	}
	return &models.Alert{
		Kind:      models.AlertAsiaSweep,
		Symbol:    setup.Symbol,
		Price:     trailing[len(trailing)-1],
		Levels:    []float64{setup.AsiaLow},
		Direction: "bullish",
		Timestamp: at.Timestamp,
	}, true
}
