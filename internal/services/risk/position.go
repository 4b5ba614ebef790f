package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
)

// PositionConfig holds the sizing tunables.
type PositionConfig struct {
	RiskPerTradeFraction float64 // equity fraction risked per trade, default 0.01
	RewardRatioFloor     float64 // plans below this ratio are flagged invalid, default 1.5
	LeverageCeiling      float64 // plans above this leverage are flagged unsafe, default 10
	BreakEvenR           float64 // unrealized gain in R that triggers break-even, default 0.5
	KOSafetyBufferPct    float64 // knock-out barrier distance beyond the stop, default 1.0
}

// PositionCalculator sizes trades. All monetary math runs on decimals so
// repeated recomputation cannot drift. Stateless; safe for concurrent use.
type PositionCalculator struct {
	riskFraction decimal.Decimal
	ratioFloor   decimal.Decimal
	levCeiling   decimal.Decimal
	breakEvenR   decimal.Decimal
	koBufferPct  decimal.Decimal
}

// NewPositionCalculator creates a PositionCalculator, filling zero config
// fields with defaults.
func NewPositionCalculator(cfg PositionConfig) *PositionCalculator {
	if cfg.RiskPerTradeFraction <= 0 {
		cfg.RiskPerTradeFraction = 0.01
	}
	if cfg.RewardRatioFloor <= 0 {
		cfg.RewardRatioFloor = 1.5
	}
	if cfg.LeverageCeiling <= 0 {
		cfg.LeverageCeiling = 10
	}
	if cfg.BreakEvenR <= 0 {
		cfg.BreakEvenR = 0.5
	}
	if cfg.KOSafetyBufferPct <= 0 {
		cfg.KOSafetyBufferPct = 1.0
	}
	return &PositionCalculator{
		riskFraction: decimal.NewFromFloat(cfg.RiskPerTradeFraction),
		ratioFloor:   decimal.NewFromFloat(cfg.RewardRatioFloor),
		levCeiling:   decimal.NewFromFloat(cfg.LeverageCeiling),
		breakEvenR:   decimal.NewFromFloat(cfg.BreakEvenR),
		koBufferPct:  decimal.NewFromFloat(cfg.KOSafetyBufferPct),
	}
}

// Plan sizes a trade from entry/stop prices, direction, and account equity.
// A reward ratio below the floor or leverage above the ceiling is a policy
// rejection: the plan comes back with is_valid=false and a warning, not an
// error. Malformed inputs (non-positive prices/equity, stop on the wrong side
// of entry) fail fast.
func (c *PositionCalculator) Plan(symbol string, direction models.TradeDirection, entry, stop, equity, rewardRatio float64) (models.TradePlan, error) {
	if entry <= 0 || stop <= 0 {
		return models.TradePlan{}, fmt.Errorf("entry and stop must be positive (entry=%.4f stop=%.4f)", entry, stop)
	}
	if equity <= 0 {
		return models.TradePlan{}, fmt.Errorf("equity must be positive, got %.2f", equity)
	}
	if entry == stop {
		return models.TradePlan{}, fmt.Errorf("entry equals stop, risk per unit is zero")
	}
	if direction == models.DirectionLong && stop > entry {
		return models.TradePlan{}, fmt.Errorf("long stop %.4f above entry %.4f", stop, entry)
	}
	if direction == models.DirectionShort && stop < entry {
		return models.TradePlan{}, fmt.Errorf("short stop %.4f below entry %.4f", stop, entry)
	}
	if rewardRatio <= 0 {
		rewardRatio = 2.0
	}

	dEntry := decimal.NewFromFloat(entry)
	dStop := decimal.NewFromFloat(stop)
	dEquity := decimal.NewFromFloat(equity)
	dRatio := decimal.NewFromFloat(rewardRatio)

	riskPerUnit := dEntry.Sub(dStop).Abs()
	riskAmount := dEquity.Mul(c.riskFraction)
	size := riskAmount.Div(riskPerUnit)

	reward := riskPerUnit.Mul(dRatio)
	halfR := riskPerUnit.Mul(c.breakEvenR)
	var takeProfit, breakEven decimal.Decimal
	if direction == models.DirectionShort {
		takeProfit = dEntry.Sub(reward)
		breakEven = dEntry.Sub(halfR)
	} else {
		takeProfit = dEntry.Add(reward)
		breakEven = dEntry.Add(halfR)
	}

	leverage := size.Mul(dEntry).Div(dEquity)

	plan := models.TradePlan{
		Symbol:           symbol,
		Direction:        direction,
		Entry:            dEntry,
		StopLoss:         dStop,
		TakeProfit:       takeProfit,
		PositionSize:     size,
		RiskAmount:       riskAmount,
		RiskPercent:      c.riskFraction.Mul(decimal.NewFromInt(100)),
		RewardRatio:      dRatio,
		Leverage:         leverage,
		BreakEvenTrigger: breakEven,
		IsValid:          true,
	}

	if dRatio.LessThan(c.ratioFloor) {
		plan.IsValid = false
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("reward ratio %s below floor %s", dRatio.String(), c.ratioFloor.String()))
	}
	if leverage.GreaterThan(c.levCeiling) {
		plan.IsValid = false
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("leverage %s exceeds ceiling %s", leverage.StringFixed(2), c.levCeiling.String()))
	}
	return plan, nil
}

// Revalidate re-derives the is_valid verdict from a plan's own entry, stop,
// and target. It reproduces Plan's policy checks so a round-tripped plan
// yields the same verdict.
func (c *PositionCalculator) Revalidate(plan models.TradePlan) bool {
	riskPerUnit := plan.Entry.Sub(plan.StopLoss).Abs()
	if riskPerUnit.IsZero() {
		return false
	}
	reward := plan.TakeProfit.Sub(plan.Entry).Abs()
	ratio := reward.Div(riskPerUnit)
	if ratio.LessThan(c.ratioFloor) {
		return false
	}
	if plan.Leverage.GreaterThan(c.levCeiling) {
		return false
	}
	return true
}

// BreakEvenStop returns the recommended stop once the price has moved the
// configured R-fraction in the plan's favor. Advisory state derived per price
// update, not persisted trade state.
func (c *PositionCalculator) BreakEvenStop(plan models.TradePlan, currentPrice float64) (decimal.Decimal, bool) {
	price := decimal.NewFromFloat(currentPrice)
	if plan.Direction == models.DirectionShort {
		if price.LessThanOrEqual(plan.BreakEvenTrigger) {
			return plan.Entry, true
		}
	} else {
		if price.GreaterThanOrEqual(plan.BreakEvenTrigger) {
			return plan.Entry, true
		}
	}
	return plan.StopLoss, false
}

// KnockOut computes the knock-out product variant: a barrier offset beyond
// the stop by the safety buffer, and the leverage it implies.
func (c *PositionCalculator) KnockOut(plan models.TradePlan) (models.KnockOut, error) {
	hundred := decimal.NewFromInt(100)
	buffer := plan.StopLoss.Mul(c.koBufferPct).Div(hundred)

	var barrier decimal.Decimal
	if plan.Direction == models.DirectionShort {
		barrier = plan.StopLoss.Add(buffer)
	} else {
		barrier = plan.StopLoss.Sub(buffer)
	}
	if barrier.LessThanOrEqual(decimal.Zero) {
		return models.KnockOut{}, fmt.Errorf("knock-out barrier %s not positive", barrier.String())
	}
	distance := plan.Entry.Sub(barrier).Abs()
	if distance.IsZero() {
		return models.KnockOut{}, fmt.Errorf("knock-out barrier equals entry")
	}
	return models.KnockOut{
		Barrier:         barrier,
		ImpliedLeverage: plan.Entry.Div(distance),
	}, nil
}
