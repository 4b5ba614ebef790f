package models

import "time"

// Verdict is the final outcome for a candidate trade.
type Verdict string

const (
	VerdictExecute Verdict = "EXECUTE"
	VerdictReject  Verdict = "REJECT"
	VerdictWait    Verdict = "WAIT"
	VerdictHalt    Verdict = "HALT"
	VerdictReduce  Verdict = "REDUCE"
)

// Decision is the fused outcome of validation, risk evaluation, and the
// high-risk-event flag. Immutable once produced; an external collaborator
// persists it for audit. It echoes everything it was computed against so the
// audit trail is self-contained and re-derivable.
type Decision struct {
	Symbol        string
	Verdict       Verdict
	Reason        string
	Confidence    float64
	RewardRatio   float64
	Risk          RiskContext
	HighRiskEvent bool
	Timestamp     time.Time
}

// DecisionStats aggregates persisted decisions over a trailing window.
// Pure aggregation; carries no new decision logic.
type DecisionStats struct {
	Symbol        string
	From          time.Time
	To            time.Time
	Total         int
	ByVerdict     map[Verdict]int
	ExecuteRate   float64 // executed / total, 0 when total is 0
	AvgConfidence float64
	AvgRatio      float64
}
