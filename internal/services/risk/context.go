// Package risk contains the account risk gate and position sizing.
package risk

import (
	"fmt"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
)

// ContextConfig holds the account guard limits.
type ContextConfig struct {
	MaxDailyLossPct float64 // default 3.0
	MaxOpenTrades   int     // default 5
}

// Safe defaults applied when no account state is supplied.
const (
	defaultBalance = 10000.0
)

// ContextEvaluator turns an account snapshot into a risk mode. Pure function
// of its input; safe for concurrent use.
type ContextEvaluator struct {
	cfg ContextConfig
}

// NewContextEvaluator creates a ContextEvaluator, filling zero config fields
// with defaults.
func NewContextEvaluator(cfg ContextConfig) *ContextEvaluator {
	if cfg.MaxDailyLossPct <= 0 {
		cfg.MaxDailyLossPct = 3.0
	}
	if cfg.MaxOpenTrades <= 0 {
		cfg.MaxOpenTrades = 5
	}
	return &ContextEvaluator{cfg: cfg}
}

// Evaluate applies the guards in strict precedence: drawdown first, exposure
// second, NORMAL otherwise. A nil state degrades to safe defaults (balance
// 10000, zero open trades, zero daily P&L) flagged on the result; it never
// raises.
func (e *ContextEvaluator) Evaluate(state *models.AccountState) models.RiskContext {
	ctx := models.RiskContext{
		Limits: models.RiskLimits{
			MaxDailyLossPct: e.cfg.MaxDailyLossPct,
			MaxOpenTrades:   e.cfg.MaxOpenTrades,
		},
	}
	if state == nil {
		state = &models.AccountState{Balance: defaultBalance, Equity: defaultBalance}
		ctx.Degraded = true
		ctx.Warnings = append(ctx.Warnings, "account state unavailable, safe defaults applied")
	}

	// Guard 1: drawdown.
	if state.DailyPnLPct <= -e.cfg.MaxDailyLossPct {
		ctx.Mode = models.RiskStopTrading
		ctx.Allowed = false
		ctx.Warnings = append(ctx.Warnings,
			fmt.Sprintf("daily loss %.2f%% breached limit %.2f%%", state.DailyPnLPct, -e.cfg.MaxDailyLossPct))
		return ctx
	}

	// Guard 2: exposure, only reached when guard 1 passed.
	if state.OpenPositions >= e.cfg.MaxOpenTrades {
		ctx.Mode = models.RiskLimitedMode
		ctx.Allowed = false
		ctx.Warnings = append(ctx.Warnings,
			fmt.Sprintf("open positions %d at limit %d", state.OpenPositions, e.cfg.MaxOpenTrades))
		return ctx
	}

	ctx.Mode = models.RiskNormal
	ctx.Allowed = true

	// Non-blocking proximity warnings; these never change mode or allowed.
	if state.DailyPnLPct <= -(e.cfg.MaxDailyLossPct - 1) {
		ctx.Warnings = append(ctx.Warnings,
			fmt.Sprintf("daily loss %.2f%% approaching limit %.2f%%", state.DailyPnLPct, -e.cfg.MaxDailyLossPct))
	}
	if state.OpenPositions >= e.cfg.MaxOpenTrades-1 {
		ctx.Warnings = append(ctx.Warnings,
			fmt.Sprintf("open positions %d one below limit %d", state.OpenPositions, e.cfg.MaxOpenTrades))
	}
	return ctx
}
