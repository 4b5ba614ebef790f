package levels

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/indicator"
)

func dailyBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	t0 := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		base := 18000 + float64(i)*25
		bars[i] = models.Bar{
			Timestamp: t0.AddDate(0, 0, i),
			Symbol:    "NQ",
			Open:      base,
			High:      base + 60,
			Low:       base - 40,
			Close:     base + 20,
			Volume:    50000,
		}
	}
	return bars
}

func TestComputeLevels(t *testing.T) {
	bars := dailyBars(25)
	tradeDate := bars[len(bars)-1].Timestamp.AddDate(0, 0, 1)

	calc := NewCalculator()
	lv, err := calc.Compute("NQ", tradeDate, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	y := bars[len(bars)-1]
	if lv.YesterdayHigh != y.High || lv.YesterdayLow != y.Low || lv.YesterdayClose != y.Close {
		t.Fatalf("yesterday OHLC mismatch")
	}
	if lv.YesterdayRange != y.High-y.Low {
		t.Fatalf("range = %v, want %v", lv.YesterdayRange, y.High-y.Low)
	}
	if math.Abs(lv.ChangePoints-25) > 1e-9 {
		t.Fatalf("change points = %v, want 25", lv.ChangePoints)
	}
	if lv.ChangePercent <= 0 {
		t.Fatalf("change percent should be positive, got %v", lv.ChangePercent)
	}
	if lv.ATR5 <= 0 || lv.ATR20 <= 0 {
		t.Fatalf("ATRs should be computed with 25 daily bars: %v %v", lv.ATR5, lv.ATR20)
	}
	if !lv.TradeDate.Equal(tradeDate.Truncate(24 * time.Hour)) {
		t.Fatalf("trade date not normalized: %v", lv.TradeDate)
	}
}

func TestComputeLevelsShortHistory(t *testing.T) {
	calc := NewCalculator()
	if _, err := calc.Compute("NQ", time.Now().UTC(), dailyBars(1)); !errors.Is(err, indicator.ErrSeriesTooShort) {
		t.Fatalf("expected ErrSeriesTooShort, got %v", err)
	}
	if _, err := calc.Compute("NQ", time.Now().UTC(), nil); !errors.Is(err, indicator.ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}

	// 4 bars: change computable, ATRs degrade to zero.
	lv, err := calc.Compute("NQ", time.Now().UTC(), dailyBars(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lv.ATR5 != 0 || lv.ATR20 != 0 {
		t.Fatalf("ATRs should degrade to zero on short history")
	}
}

func TestPivotsFromLevels(t *testing.T) {
	calc := NewCalculator()
	lv := &models.DailyLevels{YesterdayHigh: 110, YesterdayLow: 90, YesterdayClose: 100}
	p, err := calc.Pivots(lv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(p.Pivot-100) > 1e-12 {
		t.Fatalf("pivot = %v, want 100", p.Pivot)
	}
	if _, err := calc.Pivots(nil); err == nil {
		t.Fatalf("expected error for nil levels")
	}
}
