package repository

import (
	"context"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
)

// MarketStream is a live feed of bars for the instruments the core watches.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Bar, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// BarHistory fetches historical bars over the provider's REST API. Serves as
// the fallback source when the local warehouse has no history yet.
type BarHistory interface {
	DailyBars(ctx context.Context, symbol string, to time.Time, n int) ([]models.Bar, error)
}

// DecisionStore persists decisions append-only and answers trailing-window
// aggregation queries. The schema is the store's concern.
type DecisionStore interface {
	Append(ctx context.Context, d *models.Decision) error
	Aggregate(ctx context.Context, symbol string, from, to time.Time) (*models.DecisionStats, error)
	Health(ctx context.Context) error
	Close() error
}

// AlertPublisher hands qualifying alerts to the dispatch collaborator.
type AlertPublisher interface {
	Publish(ctx context.Context, a *models.Alert) error
	PublishBatch(ctx context.Context, alerts []*models.Alert) error
	Close() error
}

// LevelsCache caches immutable DailyLevels and monitored setups between
// pipeline runs.
type LevelsCache interface {
	GetLevels(ctx context.Context, symbol string, date time.Time) (*models.DailyLevels, bool, error)
	SetLevels(ctx context.Context, levels *models.DailyLevels) error
	GetRangeSetup(ctx context.Context, symbol string) (*models.RangeSetup, bool, error)
	SetRangeSetup(ctx context.Context, setup *models.RangeSetup) error
}

// Metrics records operational counters for the decision core.
type Metrics interface {
	RecordDecision(symbol string, verdict string)
	RecordAlert(symbol string, kind string)
	RecordError(kind string)
	RecordConfidence(symbol string, confidence float64)
	RecordLatency(op string, seconds float64)
}
