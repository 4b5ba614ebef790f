package models

import "time"

// TradeDirection is the side of a candidate trade.
type TradeDirection string

const (
	DirectionLong  TradeDirection = "long"
	DirectionShort TradeDirection = "short"
)

// SignalContext carries the market context a signal was observed in.
type SignalContext struct {
	Trend      string  // "bullish", "bearish", "neutral"
	Volatility float64 // ATR or comparable measure, in price points
}

// Signal is the raw feature bundle fed into validation.
type Signal struct {
	Symbol    string
	Timestamp time.Time
	Direction TradeDirection
	Strategy  string // opaque strategy code, used only for the priority allow-list

	Price  float64
	EMA20  float64
	EMA50  float64
	EMA200 float64

	Pivots PivotLadder

	Volume        int64
	AverageVolume float64

	LastBar Bar

	Context SignalContext
}

// EntryContextKind classifies a proposed entry against the prior day's range.
type EntryContextKind string

const (
	EntryBreakout       EntryContextKind = "breakout"
	EntryLiquiditySweep EntryContextKind = "liquidity_sweep"
	EntryRangeBound     EntryContextKind = "range_bound"
	EntryUnknown        EntryContextKind = "unknown"
)

// EntryContext is the outcome of classifying an entry price against
// DailyLevels. Kind is EntryUnknown with a Note when levels were unavailable;
// classification never fails.
type EntryContext struct {
	Kind  EntryContextKind
	Boost float64 // confidence boost contributed by the classification
	Note  string
}

// ValidationResult is the outcome of scoring one signal. Created fresh per
// validation call; never mutated.
type ValidationResult struct {
	Confidence       float64 // [0,1]
	IsValid          bool    // Confidence >= engine threshold
	PriorityOverride bool
	Breakdown        map[string]float64 // sub-metric name -> [0,1] contribution
	Notes            []string
}
