package models

import (
	"fmt"
	"time"
)

// Bar represents one OHLCV price observation for a fixed interval.
// Bars are produced by an external data source and immutable once stored.
type Bar struct {
	Timestamp time.Time
	Symbol    string
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Range returns high minus low.
func (b Bar) Range() float64 { return b.High - b.Low }

// Body returns the absolute open-close distance.
func (b Bar) Body() float64 {
	if b.Close >= b.Open {
		return b.Close - b.Open
	}
	return b.Open - b.Close
}

// Bullish reports whether the bar closed above its open.
func (b Bar) Bullish() bool { return b.Close > b.Open }

// Validate checks OHLC consistency. high >= max(open,close) and
// low <= min(open,close); all prices positive, volume non-negative.
func (b Bar) Validate() error {
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("bar %s@%s: non-positive price", b.Symbol, b.Timestamp.Format(time.RFC3339))
	}
	if b.High < b.Low {
		return fmt.Errorf("bar %s@%s: high %.4f below low %.4f", b.Symbol, b.Timestamp.Format(time.RFC3339), b.High, b.Low)
	}
	hi := b.Open
	if b.Close > hi {
		hi = b.Close
	}
	lo := b.Open
	if b.Close < lo {
		lo = b.Close
	}
	if b.High < hi || b.Low > lo {
		return fmt.Errorf("bar %s@%s: body [%.4f,%.4f] outside range [%.4f,%.4f]", b.Symbol, b.Timestamp.Format(time.RFC3339), lo, hi, b.Low, b.High)
	}
	if b.Volume < 0 {
		return fmt.Errorf("bar %s@%s: negative volume", b.Symbol, b.Timestamp.Format(time.RFC3339))
	}
	return nil
}
