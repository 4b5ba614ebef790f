package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/levels"
)

// LevelsUseCase resolves the DailyLevels snapshot for a trade date,
// preferring the cache and computing from daily bars on a miss. Levels are
// immutable per (symbol, date) so a cache hit never needs revalidation.
type LevelsUseCase struct {
	bars    domrepo.BarStore
	cache   domrepo.LevelsCache
	calc    *levels.Calculator
	metrics domrepo.Metrics
	hist    domrepo.BarHistory
	history int
}

func NewLevelsUseCase(bars domrepo.BarStore, cache domrepo.LevelsCache, calc *levels.Calculator, metrics domrepo.Metrics) *LevelsUseCase {
	return &LevelsUseCase{bars: bars, cache: cache, calc: calc, metrics: metrics, history: 21}
}

// SetHistory injects the REST fallback used when the warehouse holds no daily
// bars for the symbol yet.
func (uc *LevelsUseCase) SetHistory(h domrepo.BarHistory) { uc.hist = h }

// Resolve returns the levels for (symbol, date), computing and caching them
// when absent.
func (uc *LevelsUseCase) Resolve(ctx context.Context, symbol string, date time.Time) (*models.DailyLevels, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	date = date.UTC().Truncate(24 * time.Hour)

	if lv, ok, err := uc.cache.GetLevels(ctx, symbol, date); err == nil && ok {
		return lv, nil
	} else if err != nil {
		uc.metrics.RecordError("levels_cache_get")
	}

	daily, err := uc.bars.GetDailyBars(ctx, symbol, date, uc.history)
	if err != nil {
		uc.metrics.RecordError("daily_bars_fetch")
		if uc.hist == nil {
			return nil, fmt.Errorf("get daily bars: %w", err)
		}
		daily = nil
	}
	if len(daily) == 0 && uc.hist != nil {
		daily, err = uc.hist.DailyBars(ctx, symbol, date, uc.history)
		if err != nil {
			uc.metrics.RecordError("daily_bars_backfill")
			return nil, fmt.Errorf("backfill daily bars: %w", err)
		}
	}
	lv, err := uc.calc.Compute(symbol, date, daily)
	if err != nil {
		return nil, fmt.Errorf("compute levels: %w", err)
	}
	if err := uc.cache.SetLevels(ctx, lv); err != nil {
		uc.metrics.RecordError("levels_cache_set")
	}
	return lv, nil
}

// Ladder derives the pivot ladder for resolved levels.
func (uc *LevelsUseCase) Ladder(lv *models.DailyLevels) (models.PivotLadder, error) {
	return uc.calc.Pivots(lv)
}
