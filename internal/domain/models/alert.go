package models

import "time"

// AlertKind identifies the rule that produced an alert.
type AlertKind string

const (
	AlertRangeBreak   AlertKind = "range_break"
	AlertRetestTouch  AlertKind = "retest_touch"
	AlertPivotTouch   AlertKind = "pivot_touch"
	AlertR1Touch      AlertKind = "r1_touch"
	AlertS1Touch      AlertKind = "s1_touch"
	AlertAsiaSweep    AlertKind = "asia_sweep_confirmed"
	AlertBreakEvenHit AlertKind = "break_even_hit"
)

// Alert is one discrete event emitted when a bar qualifies against a stored
// level or setup. One alert per qualifying bar per rule; deduplication across
// bars belongs to the dispatch collaborator, not this core.
type Alert struct {
	Kind      AlertKind
	Symbol    string
	Price     float64   // the detected price
	Levels    []float64 // the level(s) the rule matched against
	Direction string    // "bullish"/"bearish" where the rule is directional
	Timestamp time.Time
}

// RangeSetup is a previously established range monitored for breaks and
// retests. Immutable for the lifetime of the detection.
type RangeSetup struct {
	Symbol     string
	High       float64
	Low        float64
	BrokenUp   bool // a bullish break was already recorded for this setup
	BrokenDown bool
}

// SweepSetup tracks an Asia-session low monitored for a sweep-and-reclaim.
type SweepSetup struct {
	Symbol   string
	AsiaLow  float64
	Breached bool // the low was taken out intrabar by the monitoring window
}
