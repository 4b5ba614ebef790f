package models

// AccountState is the account snapshot supplied by an external collaborator.
// Read-only to this core.
type AccountState struct {
	Balance       float64
	Equity        float64
	OpenPositions int
	DailyPnLPct   float64 // daily P&L as percent of balance, negative for loss
}

// RiskMode is the account-level trading gate.
type RiskMode string

const (
	RiskNormal      RiskMode = "NORMAL"
	RiskLimitedMode RiskMode = "LIMITED_MODE"
	RiskStopTrading RiskMode = "STOP_TRADING"
)

// RiskLimits echoes the limits a RiskContext was evaluated against.
type RiskLimits struct {
	MaxDailyLossPct float64
	MaxOpenTrades   int
}

// RiskContext is the result of evaluating an AccountState. Computed fresh on
// each evaluation and not persisted by the core.
type RiskContext struct {
	Mode     RiskMode
	Allowed  bool
	Warnings []string
	Limits   RiskLimits
	Degraded bool // account state was missing and safe defaults were used
}
