package service

import (
	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
)

// SignalValidator scores a candidate signal into a confidence and verdict.
type SignalValidator interface {
	Validate(sig models.Signal) models.ValidationResult
	ValidateWithLevels(sig models.Signal, lv *models.DailyLevels) (models.ValidationResult, models.EntryContext)
	ClassifyEntry(price float64, lv *models.DailyLevels) models.EntryContext
}

// RiskEvaluator turns an account snapshot into a risk mode.
type RiskEvaluator interface {
	Evaluate(state *models.AccountState) models.RiskContext
}

// DecisionMaker fuses validation, risk, and the external event flag into one
// final verdict.
type DecisionMaker interface {
	Decide(symbol string, v models.ValidationResult, rewardRatio float64, risk models.RiskContext, highRiskEvent bool) models.Decision
}

// PositionSizer computes a fully sized trade plan from entry/stop and equity.
type PositionSizer interface {
	Plan(symbol string, direction models.TradeDirection, entry, stop, equity, rewardRatio float64) (models.TradePlan, error)
}

// AlertDetector evaluates stored setups/levels against the newest bar.
type AlertDetector interface {
	CheckRangeBreak(setup models.RangeSetup, bar models.Bar) (*models.Alert, bool)
	CheckRetest(setup models.RangeSetup, price float64, at models.Bar) (*models.Alert, bool)
	CheckPivotTouch(ladder models.PivotLadder, bar models.Bar) []*models.Alert
	CheckAsiaSweep(setup models.SweepSetup, closes []float64, at models.Bar) (*models.Alert, bool)
}
