package models

import "math"

// Indicator series keys.
const (
	KeySMA20      = "sma_20"
	KeyEMA20      = "ema_20"
	KeyEMA50      = "ema_50"
	KeyEMA200     = "ema_200"
	KeyRSI14      = "rsi_14"
	KeyATR14      = "atr_14"
	KeyMACDLine   = "macd_line"
	KeyMACDSignal = "macd_signal"
	KeyMACDHist   = "macd_hist"
	KeyBBUpper    = "bb_upper"
	KeyBBMiddle   = "bb_middle"
	KeyBBLower    = "bb_lower"
)

// IndicatorSet maps indicator keys to series aligned 1:1 with the input bars.
// Entries before an indicator's lookback window is satisfied are NaN, never
// zero.
type IndicatorSet map[string][]float64

// Last returns the newest defined value of a series, or NaN when the series is
// absent or has no defined values yet.
func (s IndicatorSet) Last(key string) float64 {
	series, ok := s[key]
	if !ok || len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}
