package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
	svccache "github.com/umi1970/TradeMatrix-sub001/internal/service/cache"
)

// CachedLevels implements LevelsCache on top of a BytesCache (in-memory TTL
// or Redis). DailyLevels are immutable per (symbol, date) so a generous TTL
// is safe; range setups mutate on break and are rewritten by the scanner.
type CachedLevels struct {
	cache     svccache.BytesCache
	levelsTTL time.Duration
	setupTTL  time.Duration
}

func NewCachedLevels(cache svccache.BytesCache) *CachedLevels {
	return &CachedLevels{
		cache:     cache,
		levelsTTL: 48 * time.Hour,
		setupTTL:  24 * time.Hour,
	}
}

func levelsKey(symbol string, date time.Time) string {
	return fmt.Sprintf("levels:%s:%s", symbol, date.UTC().Format("2006-01-02"))
}

func rangeKey(symbol string) string {
	return "range:" + symbol
}

func (c *CachedLevels) GetLevels(ctx context.Context, symbol string, date time.Time) (*models.DailyLevels, bool, error) {
	b, ok, err := c.cache.GetBytes(levelsKey(symbol, date))
	if err != nil || !ok {
		return nil, false, err
	}
	var lv models.DailyLevels
	if err := json.Unmarshal(b, &lv); err != nil {
		return nil, false, fmt.Errorf("decode levels: %w", err)
	}
	return &lv, true, nil
}

func (c *CachedLevels) SetLevels(ctx context.Context, levels *models.DailyLevels) error {
	if levels == nil {
		return fmt.Errorf("levels is nil")
	}
	b, err := json.Marshal(levels)
	if err != nil {
		return fmt.Errorf("encode levels: %w", err)
	}
	return c.cache.SetBytes(levelsKey(levels.Symbol, levels.TradeDate), b, c.levelsTTL)
}

func (c *CachedLevels) GetRangeSetup(ctx context.Context, symbol string) (*models.RangeSetup, bool, error) {
	b, ok, err := c.cache.GetBytes(rangeKey(symbol))
	if err != nil || !ok {
		return nil, false, err
	}
	var setup models.RangeSetup
	if err := json.Unmarshal(b, &setup); err != nil {
		return nil, false, fmt.Errorf("decode range setup: %w", err)
	}
	return &setup, true, nil
}

func (c *CachedLevels) SetRangeSetup(ctx context.Context, setup *models.RangeSetup) error {
	if setup == nil {
		return fmt.Errorf("setup is nil")
	}
	b, err := json.Marshal(setup)
	if err != nil {
		return fmt.Errorf("encode range setup: %w", err)
	}
	return c.cache.SetBytes(rangeKey(setup.Symbol), b, c.setupTTL)
}

var _ domrepo.LevelsCache = (*CachedLevels)(nil)
