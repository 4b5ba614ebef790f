package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
)

// DecisionStatsUseCase answers trailing-window aggregation queries over the
// decision audit log.
type DecisionStatsUseCase struct {
	store   domrepo.DecisionStore
	timeout time.Duration
}

func NewDecisionStatsUseCase(store domrepo.DecisionStore) *DecisionStatsUseCase {
	return &DecisionStatsUseCase{store: store, timeout: 10 * time.Second}
}

type GetStatsParams struct {
	Symbol string
	Hours  int
}

func (uc *DecisionStatsUseCase) GetStats(ctx context.Context, p GetStatsParams) (*models.DecisionStats, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.Hours <= 0 {
		p.Hours = 24
	}
	if p.Hours > 720 {
		p.Hours = 720
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	to := time.Now().UTC()
	from := to.Add(-time.Duration(p.Hours) * time.Hour)
	stats, err := uc.store.Aggregate(ctx, p.Symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregate decisions: %w", err)
	}
	return stats, nil
}
