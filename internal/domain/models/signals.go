package models

import "time"

// EvaluationOutcome represents a consolidated view of one pipeline run for an
// instrument/account pair. Note: no transport (json/http) concerns here.
type EvaluationOutcome struct {
	Symbol     string
	Timestamp  time.Time
	Validation *ValidationResult
	Entry      *EntryContext
	Risk       *RiskContext
	Decision   *Decision
	Plan       *TradePlan
	Errors     map[string]string
}
