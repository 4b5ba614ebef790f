package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/levels"
)

var tradeDate = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func dailyHistory(symbol string, n int) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{
			Timestamp: tradeDate.AddDate(0, 0, -(n - i)),
			Symbol:    symbol,
			Open:      100,
			High:      102,
			Low:       98,
			Close:     101,
			Volume:    10000,
		}
	}
	return bars
}

func TestResolveCacheHitSkipsStore(t *testing.T) {
	store := &fakeBarStore{}
	cache := newFakeLevelsCache()
	want := &models.DailyLevels{Symbol: "NQ", TradeDate: tradeDate, YesterdayClose: 101}
	cache.SetLevels(context.Background(), want)

	uc := NewLevelsUseCase(store, cache, levels.NewCalculator(), newFakeMetrics())
	got, err := uc.Resolve(context.Background(), "NQ", tradeDate.Add(13*time.Hour))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != want {
		t.Fatalf("cache hit must be returned as-is")
	}
	if store.lastSym != "" {
		t.Fatalf("cache hit must not touch the bar store")
	}
}

func TestResolveMissComputesAndCaches(t *testing.T) {
	store := &fakeBarStore{daily: dailyHistory("NQ", 21)}
	cache := newFakeLevelsCache()

	uc := NewLevelsUseCase(store, cache, levels.NewCalculator(), newFakeMetrics())
	lv, err := uc.Resolve(context.Background(), "NQ", tradeDate)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if lv.YesterdayClose != 101 || lv.YesterdayHigh != 102 {
		t.Fatalf("levels not derived from yesterday's bar: %+v", lv)
	}
	if lv.ATR5 <= 0 || lv.ATR20 <= 0 {
		t.Fatalf("ATR windows must be filled with 21 days of history: %+v", lv)
	}
	if cache.setCalls == 0 {
		t.Fatalf("computed levels must be cached")
	}

	// second resolve is served from the cache
	store.lastSym = ""
	if _, err := uc.Resolve(context.Background(), "NQ", tradeDate); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if store.lastSym != "" {
		t.Fatalf("second resolve must hit the cache")
	}
}

func TestResolveFallsBackToRestHistory(t *testing.T) {
	store := &fakeBarStore{}
	metrics := newFakeMetrics()
	uc := NewLevelsUseCase(store, newFakeLevelsCache(), levels.NewCalculator(), metrics)
	hist := &fakeHistory{bars: dailyHistory("NQ", 21)}
	uc.SetHistory(hist)

	lv, err := uc.Resolve(context.Background(), "NQ", tradeDate)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if hist.calls != 1 {
		t.Fatalf("empty warehouse must hit the REST fallback, calls = %d", hist.calls)
	}
	if lv.YesterdayHigh != 102 || lv.YesterdayLow != 98 {
		t.Fatalf("levels not computed from backfilled bars: %+v", lv)
	}

	// a warehouse error also falls through to the fallback
	store.err = errBoom
	if _, err := uc.Resolve(context.Background(), "DAX", tradeDate); err != nil {
		t.Fatalf("resolve with store error: %v", err)
	}
	if metrics.errs["daily_bars_fetch"] != 1 {
		t.Fatalf("store failure not recorded")
	}

	// fallback failure surfaces
	hist.err = errBoom
	if _, err := uc.Resolve(context.Background(), "ES", tradeDate); err == nil {
		t.Fatalf("failed backfill must be an error")
	}
	if metrics.errs["daily_bars_backfill"] != 1 {
		t.Fatalf("backfill failure not recorded")
	}
}

func TestResolveFailsWithoutHistory(t *testing.T) {
	uc := NewLevelsUseCase(&fakeBarStore{}, newFakeLevelsCache(), levels.NewCalculator(), newFakeMetrics())
	if _, err := uc.Resolve(context.Background(), "NQ", tradeDate); err == nil {
		t.Fatalf("no daily history must be an error")
	}
	if _, err := uc.Resolve(context.Background(), "", tradeDate); err == nil {
		t.Fatalf("empty symbol must be rejected")
	}
}

func TestLadder(t *testing.T) {
	uc := NewLevelsUseCase(&fakeBarStore{}, newFakeLevelsCache(), levels.NewCalculator(), newFakeMetrics())
	lv := &models.DailyLevels{YesterdayHigh: 102, YesterdayLow: 98, YesterdayClose: 101}
	ladder, err := uc.Ladder(lv)
	if err != nil {
		t.Fatalf("ladder: %v", err)
	}
	wantPivot := (102.0 + 98.0 + 101.0) / 3.0
	if ladder.Pivot != wantPivot {
		t.Fatalf("pivot = %v, want %v", ladder.Pivot, wantPivot)
	}
	if ladder.R1 <= ladder.Pivot || ladder.S1 >= ladder.Pivot {
		t.Fatalf("ladder ordering broken: %+v", ladder)
	}
}
