// Package indicator provides technical indicator calculations over ordered
// bar series.
//
// All functions return series aligned 1:1 with the input; indices before an
// indicator's lookback window is satisfied hold NaN. Inputs shorter than the
// minimum the requested period needs fail with a domain error, as do
// non-positive periods.
package indicator

import (
	"errors"
	"fmt"
	"math"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
)

var (
	// ErrEmptySeries is returned when the input series has no elements.
	ErrEmptySeries = errors.New("empty series")
	// ErrSeriesTooShort is returned when the series is shorter than the
	// requested period requires.
	ErrSeriesTooShort = errors.New("series shorter than period")
	// ErrInvalidPeriod is returned for periods <= 0.
	ErrInvalidPeriod = errors.New("period must be positive")
)

func checkInput(n, period, minBars int) error {
	if period <= 0 {
		return fmt.Errorf("period %d: %w", period, ErrInvalidPeriod)
	}
	if n == 0 {
		return ErrEmptySeries
	}
	if n < minBars {
		return fmt.Errorf("need %d bars, have %d: %w", minBars, n, ErrSeriesTooShort)
	}
	return nil
}

// nanSeries returns a slice of n NaNs.
func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Closes extracts the close series from bars.
func Closes(bars []models.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
