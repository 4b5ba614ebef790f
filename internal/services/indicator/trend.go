package indicator

import "math"

// Trend labels.
const (
	TrendBullish = "bullish"
	TrendBearish = "bearish"
	TrendNeutral = "neutral"
)

// ClassifyTrend labels the trend from strict EMA ordering: bullish iff
// price > ema20 > ema50 > ema200, bearish for the symmetric case, neutral
// otherwise. Ordering, not slope, is the sole signal. Any NaN input yields
// neutral.
func ClassifyTrend(price, ema20, ema50, ema200 float64) string {
	if math.IsNaN(price) || math.IsNaN(ema20) || math.IsNaN(ema50) || math.IsNaN(ema200) {
		return TrendNeutral
	}
	if price > ema20 && ema20 > ema50 && ema50 > ema200 {
		return TrendBullish
	}
	if price < ema20 && ema20 < ema50 && ema50 < ema200 {
		return TrendBearish
	}
	return TrendNeutral
}
