package repository

import (
	"context"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
)

// Timeframe represents bar resolution buckets.
type Timeframe string

const (
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
)

// BarStore provides read-only access to ordered bar series for the decision
// core. Implementations must return bars in ascending timestamp order.
type BarStore interface {
	GetBars(ctx context.Context, symbol string, from, to time.Time, tf Timeframe) ([]models.Bar, error)
	GetLatestNBars(ctx context.Context, symbol string, n int, tf Timeframe) ([]models.Bar, error)
	// GetDailyBars returns the n daily bars ending strictly before date.
	GetDailyBars(ctx context.Context, symbol string, date time.Time, n int) ([]models.Bar, error)
}
