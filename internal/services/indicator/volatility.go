package indicator

import (
	"math"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
)

// Bollinger computes Bollinger Bands: middle = SMA(period), upper/lower =
// middle +/- k * population standard deviation over the same window.
func Bollinger(closes []float64, period int, k float64) (upper, middle, lower []float64, err error) {
	middle, err = SMA(closes, period)
	if err != nil {
		return nil, nil, nil, err
	}
	upper = nanSeries(len(closes))
	lower = nanSeries(len(closes))
	for i := period - 1; i < len(closes); i++ {
		mean := middle[i]
		varSum := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := closes[j] - mean
			varSum += d * d
		}
		sd := math.Sqrt(varSum / float64(period))
		upper[i] = mean + k*sd
		lower[i] = mean - k*sd
	}
	return upper, middle, lower, nil
}

// TrueRange computes the true range series. The first bar has no previous
// close and its entry is NaN.
func TrueRange(bars []models.Bar) []float64 {
	out := nanSeries(len(bars))
	for i := 1; i < len(bars); i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// ATR computes the Wilder-smoothed average true range over period. The first
// bar is excluded from the seed (it has no previous close); the first defined
// value sits at index period.
func ATR(bars []models.Bar, period int) ([]float64, error) {
	if err := checkInput(len(bars), period, period+1); err != nil {
		return nil, err
	}
	tr := TrueRange(bars)
	out := nanSeries(len(bars))

	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	out[period] = sum / float64(period)

	for i := period + 1; i < len(bars); i++ {
		out[i] = (out[i-1]*float64(period-1) + tr[i]) / float64(period)
	}
	return out, nil
}
