package models

import "time"

// DailyLevels is the per-instrument reference snapshot derived from the prior
// trading day. Created once per trade date after the prior day closes and
// immutable thereafter; keyed by (symbol, trade date).
type DailyLevels struct {
	Symbol    string
	TradeDate time.Time // midnight UTC of the day the levels apply to

	YesterdayOpen  float64
	YesterdayHigh  float64
	YesterdayLow   float64
	YesterdayClose float64
	YesterdayRange float64

	ATR5  float64
	ATR20 float64

	ChangePoints  float64 // yesterday close vs day-before close
	ChangePercent float64
}

// PivotLadder holds the classic floor-trader pivot levels computed from the
// prior period's high/low/close.
type PivotLadder struct {
	Pivot float64
	R1    float64
	R2    float64
	R3    float64
	S1    float64
	S2    float64
	S3    float64
}

// Levels returns the ladder as a flat slice, pivot first, resistances then
// supports. Order is stable so callers can zip it with level names.
func (p PivotLadder) Levels() []float64 {
	return []float64{p.Pivot, p.R1, p.R2, p.R3, p.S1, p.S2, p.S3}
}

// LevelNames mirrors Levels() ordering.
func LevelNames() []string {
	return []string{"pp", "r1", "r2", "r3", "s1", "s2", "s3"}
}
