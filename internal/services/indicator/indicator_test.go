package indicator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
)

func barsFromCloses(closes []float64) []models.Bar {
	bars := make([]models.Bar, len(closes))
	t0 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = models.Bar{
			Timestamp: t0.Add(time.Duration(i) * time.Hour),
			Symbol:    "NQ",
			Open:      c - 0.5,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		}
	}
	return bars
}

func TestSMAWindow(t *testing.T) {
	got, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if !math.IsNaN(got[i]) {
			t.Fatalf("index %d should be NaN, got %v", i, got[i])
		}
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if math.Abs(got[i+2]-w) > 1e-12 {
			t.Fatalf("sma[%d] = %v, want %v", i+2, got[i+2], w)
		}
	}
}

func TestEMASeedIsSMA(t *testing.T) {
	got, err := EMA([]float64{2, 4, 6, 8}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got[2]-4) > 1e-12 {
		t.Fatalf("ema seed = %v, want SMA 4", got[2])
	}
	// next value: 8*0.5 + 4*0.5 = 6
	if math.Abs(got[3]-6) > 1e-12 {
		t.Fatalf("ema[3] = %v, want 6", got[3])
	}
}

func TestSMAErrors(t *testing.T) {
	if _, err := SMA(nil, 3); !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
	if _, err := SMA([]float64{1, 2}, 3); !errors.Is(err, ErrSeriesTooShort) {
		t.Fatalf("expected ErrSeriesTooShort, got %v", err)
	}
	if _, err := SMA([]float64{1, 2}, 0); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestRSIBounds(t *testing.T) {
	closes := []float64{44, 44.5, 43.8, 44.2, 45.1, 45.9, 45.3, 46.2, 46.0, 46.8,
		47.1, 46.5, 47.3, 47.9, 47.5, 48.1}
	got, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 14; i++ {
		if !math.IsNaN(got[i]) {
			t.Fatalf("rsi[%d] should be NaN before window fill", i)
		}
	}
	for i := 14; i < len(got); i++ {
		if got[i] < 0 || got[i] > 100 {
			t.Fatalf("rsi[%d] = %v out of [0,100]", i, got[i])
		}
	}
}

func TestRSIFlatInput(t *testing.T) {
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 100
	}
	got, err := RSI(flat, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[14] != 50 {
		t.Fatalf("flat series rsi = %v, want 50", got[14])
	}

	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	got, err = RSI(rising, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[14] != 100 {
		t.Fatalf("all-gains rsi = %v, want 100", got[14])
	}
}

func TestMACDAlignment(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + math.Sin(float64(i)/5)*3
	}
	line, signal, hist, err := MACD(closes, 12, 26, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(line) != len(closes) || len(signal) != len(closes) || len(hist) != len(closes) {
		t.Fatalf("macd output misaligned")
	}
	if !math.IsNaN(line[24]) {
		t.Fatalf("macd line defined before slow window fill")
	}
	if math.IsNaN(line[25]) {
		t.Fatalf("macd line NaN at first defined index")
	}
	// signal needs 9 defined macd values: first at 25+8 = 33
	if !math.IsNaN(signal[32]) || math.IsNaN(signal[33]) {
		t.Fatalf("macd signal window wrong: sig[32]=%v sig[33]=%v", signal[32], signal[33])
	}
	if math.Abs(hist[33]-(line[33]-signal[33])) > 1e-12 {
		t.Fatalf("hist != line - signal")
	}
}

func TestBollingerOrdering(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 50 + float64(i%7)
	}
	upper, middle, lower, err := Bollinger(closes, 20, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 19; i < len(closes); i++ {
		if upper[i] < middle[i] || middle[i] < lower[i] {
			t.Fatalf("band ordering broken at %d: %v %v %v", i, upper[i], middle[i], lower[i])
		}
	}
}

func TestATRWindowAndSeed(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101, 102, 101, 103, 104, 103, 105,
		106, 105, 107, 108, 107, 109, 110, 111})
	got, err := ATR(bars, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i <= 13; i++ {
		if !math.IsNaN(got[i]) {
			t.Fatalf("atr[%d] should be NaN before window fill", i)
		}
	}
	if math.IsNaN(got[14]) || got[14] <= 0 {
		t.Fatalf("atr[14] = %v, want positive", got[14])
	}
}

func TestTrueRangeGaps(t *testing.T) {
	bars := []models.Bar{
		{Open: 100, High: 101, Low: 99, Close: 100},
		{Open: 110, High: 111, Low: 109, Close: 110}, // gap up: TR from prev close
	}
	tr := TrueRange(bars)
	if !math.IsNaN(tr[0]) {
		t.Fatalf("first TR should be NaN")
	}
	if math.Abs(tr[1]-11) > 1e-12 {
		t.Fatalf("tr[1] = %v, want 11 (|high-prevClose|)", tr[1])
	}
}

func TestPivotPoints(t *testing.T) {
	p, err := PivotPoints(110, 90, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(p.Pivot-100) > 1e-12 {
		t.Fatalf("pivot = %v, want 100", p.Pivot)
	}
	if math.Abs(p.R1-110) > 1e-12 || math.Abs(p.S1-90) > 1e-12 {
		t.Fatalf("r1/s1 = %v/%v, want 110/90", p.R1, p.S1)
	}
	if math.Abs(p.R2-120) > 1e-12 || math.Abs(p.S2-80) > 1e-12 {
		t.Fatalf("r2/s2 = %v/%v, want 120/80", p.R2, p.S2)
	}
	if math.Abs(p.R3-130) > 1e-12 || math.Abs(p.S3-70) > 1e-12 {
		t.Fatalf("r3/s3 = %v/%v, want 130/70", p.R3, p.S3)
	}
	if _, err := PivotPoints(90, 110, 100); err == nil {
		t.Fatalf("expected error for high < low")
	}
}

func TestCrossover(t *testing.T) {
	a := []float64{math.NaN(), 1, 3, 1, 1, 3}
	b := []float64{math.NaN(), 2, 2, 2, 2, 2}
	got, err := Crossover(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{0, 0, 1, -1, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cross[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	// index 1 is NaN-adjacent and must not fire even though a[1] <= b[1]
	if got[1] != 0 {
		t.Fatalf("NaN-adjacent bar fired")
	}
}

func TestClassifyTrend(t *testing.T) {
	if got := ClassifyTrend(105, 104, 103, 100); got != TrendBullish {
		t.Fatalf("got %q, want bullish", got)
	}
	if got := ClassifyTrend(95, 96, 97, 100); got != TrendBearish {
		t.Fatalf("got %q, want bearish", got)
	}
	if got := ClassifyTrend(105, 103, 104, 100); got != TrendNeutral {
		t.Fatalf("got %q, want neutral", got)
	}
	if got := ClassifyTrend(math.NaN(), 103, 104, 100); got != TrendNeutral {
		t.Fatalf("NaN input should be neutral, got %q", got)
	}
}

func TestEngineCompute(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.1 + math.Sin(float64(i)/9)
	}
	eng := NewEngine(Config{})
	set, err := eng.Compute(barsFromCloses(closes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, key := range []string{models.KeyEMA20, models.KeyEMA50, models.KeyEMA200,
		models.KeyRSI14, models.KeyATR14, models.KeyMACDLine, models.KeyBBUpper} {
		series, ok := set[key]
		if !ok {
			t.Fatalf("missing key %s", key)
		}
		if len(series) != len(closes) {
			t.Fatalf("%s misaligned: %d vs %d", key, len(series), len(closes))
		}
		if math.IsNaN(series[len(series)-1]) {
			t.Fatalf("%s last value NaN", key)
		}
	}

	if _, err := eng.Compute(barsFromCloses(closes[:100])); !errors.Is(err, ErrSeriesTooShort) {
		t.Fatalf("expected ErrSeriesTooShort for 100 bars, got %v", err)
	}
}
