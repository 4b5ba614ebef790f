package models

import "github.com/shopspring/decimal"

// TradePlan is a fully sized trade derived from an entry/stop pair and account
// equity. Monetary fields use decimals so repeated recomputation cannot drift
// at the cent level. Recomputed whenever inputs change, never mutated in place.
type TradePlan struct {
	Symbol    string
	Direction TradeDirection

	Entry      decimal.Decimal
	StopLoss   decimal.Decimal
	TakeProfit decimal.Decimal

	PositionSize decimal.Decimal
	RiskAmount   decimal.Decimal
	RiskPercent  decimal.Decimal
	RewardRatio  decimal.Decimal
	Leverage     decimal.Decimal

	// BreakEvenTrigger is the price at which moving the stop to entry is
	// recommended (entry +/- 0.5R).
	BreakEvenTrigger decimal.Decimal

	IsValid  bool
	Warnings []string
}

// KnockOut describes the knock-out product variant of a plan: a barrier price
// offset from the stop by a safety buffer, and its implied leverage.
type KnockOut struct {
	Barrier         decimal.Decimal
	ImpliedLeverage decimal.Decimal
}
