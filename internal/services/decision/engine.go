// Package decision fuses validation, account risk, and the external
// high-risk-event flag into one final verdict.
package decision

import (
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
)

// Reasons attached to each verdict branch.
const (
	ReasonValidationFailed = "validation failed"
	ReasonHighRiskEvent    = "high-impact event ahead"
	ReasonDailyLossLimit   = "daily loss limit / drawdown"
	ReasonMaxOpenTrades    = "max open trades reached"
	ReasonAllChecksPassed  = "all checks passed"
)

// Engine decides on candidate trades. The decision is a finite tree with
// strict ordered precedence, not a weighted vote. Stateless; safe for
// concurrent use.
type Engine struct {
	now func() time.Time
}

// NewEngine creates a decision engine stamping audit timestamps with now.
// A nil now falls back to time.Now; apart from that stamp the engine reads
// no wall clock.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Decide applies the precedence chain, first match wins:
//
//	1. validation failed          -> REJECT
//	2. high-risk event ahead      -> WAIT
//	3. risk mode STOP_TRADING     -> HALT
//	4. risk mode LIMITED_MODE     -> REDUCE
//	5. otherwise                  -> EXECUTE
//
// The decision echoes everything it was computed against so the audit record
// is self-contained and independently re-derivable.
func (e *Engine) Decide(symbol string, v models.ValidationResult, rewardRatio float64, risk models.RiskContext, highRiskEvent bool) models.Decision {
	d := models.Decision{
		Symbol:        symbol,
		Confidence:    v.Confidence,
		RewardRatio:   rewardRatio,
		Risk:          risk,
		HighRiskEvent: highRiskEvent,
		Timestamp:     e.now().UTC(),
	}

	switch {
	case !v.IsValid:
		d.Verdict = models.VerdictReject
		d.Reason = ReasonValidationFailed
	case highRiskEvent:
		d.Verdict = models.VerdictWait
		d.Reason = ReasonHighRiskEvent
	case risk.Mode == models.RiskStopTrading:
		d.Verdict = models.VerdictHalt
		d.Reason = ReasonDailyLossLimit
	case risk.Mode == models.RiskLimitedMode:
		d.Verdict = models.VerdictReduce
		d.Reason = ReasonMaxOpenTrades
	default:
		d.Verdict = models.VerdictExecute
		d.Reason = ReasonAllChecksPassed
	}
	return d
}
