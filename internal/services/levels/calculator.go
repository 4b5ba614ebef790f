// Package levels derives prior-period reference levels from daily bars.
package levels

import (
	"errors"
	"fmt"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/indicator"
)

// Calculator builds DailyLevels snapshots. Stateless; safe for concurrent use.
type Calculator struct {
	atrShort int
	atrLong  int
}

// NewCalculator creates a Calculator with 5/20-day ATR windows.
func NewCalculator() *Calculator {
	return &Calculator{atrShort: 5, atrLong: 20}
}

// Compute derives the DailyLevels for tradeDate from daily bars ending the
// prior day. Bars must be in ascending order; the last bar is yesterday.
// At least two daily bars are required (for the day-over-day change). ATR
// fields stay zero when the history is too short for their window; that is a
// documented degradation, not an error.
func (c *Calculator) Compute(symbol string, tradeDate time.Time, daily []models.Bar) (*models.DailyLevels, error) {
	if len(daily) == 0 {
		return nil, indicator.ErrEmptySeries
	}
	if len(daily) < 2 {
		return nil, fmt.Errorf("need 2 daily bars for day-over-day change, have %d: %w", len(daily), indicator.ErrSeriesTooShort)
	}
	yesterday := daily[len(daily)-1]
	dayBefore := daily[len(daily)-2]
	if err := yesterday.Validate(); err != nil {
		return nil, fmt.Errorf("yesterday bar: %w", err)
	}

	lv := &models.DailyLevels{
		Symbol:         symbol,
		TradeDate:      tradeDate.UTC().Truncate(24 * time.Hour),
		YesterdayOpen:  yesterday.Open,
		YesterdayHigh:  yesterday.High,
		YesterdayLow:   yesterday.Low,
		YesterdayClose: yesterday.Close,
		YesterdayRange: yesterday.High - yesterday.Low,
		ChangePoints:   yesterday.Close - dayBefore.Close,
	}
	if dayBefore.Close > 0 {
		lv.ChangePercent = lv.ChangePoints / dayBefore.Close * 100
	}

	if atr, err := indicator.ATR(daily, c.atrShort); err == nil {
		lv.ATR5 = atr[len(atr)-1]
	} else if !errors.Is(err, indicator.ErrSeriesTooShort) {
		return nil, fmt.Errorf("atr%d: %w", c.atrShort, err)
	}
	if atr, err := indicator.ATR(daily, c.atrLong); err == nil {
		lv.ATR20 = atr[len(atr)-1]
	} else if !errors.Is(err, indicator.ErrSeriesTooShort) {
		return nil, fmt.Errorf("atr%d: %w", c.atrLong, err)
	}

	return lv, nil
}

// Pivots computes the classic pivot ladder from yesterday's session.
func (c *Calculator) Pivots(lv *models.DailyLevels) (models.PivotLadder, error) {
	if lv == nil {
		return models.PivotLadder{}, fmt.Errorf("levels unavailable")
	}
	return indicator.PivotPoints(lv.YesterdayHigh, lv.YesterdayLow, lv.YesterdayClose)
}
