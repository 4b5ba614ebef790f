package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
	domsvc "github.com/umi1970/TradeMatrix-sub001/internal/domain/service"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/levels"
)

// AlertScanner evaluates each incoming bar against the monitored setups and
// daily levels for its instrument. Detection is stateless per rule; the
// scanner owns the cached setup state the rules are gated on. Emitted alerts
// are one-per-bar-per-rule; deduplication across bars is the dispatcher's job.
type AlertScanner struct {
	bars     domrepo.BarStore
	cache    domrepo.LevelsCache
	metrics  domrepo.Metrics
	detector domsvc.AlertDetector
	levels   *levels.Calculator

	sweepCloses int

	mu     sync.Mutex
	sweeps map[string]models.SweepSetup
	closes map[string][]float64 // trailing closes per symbol for sweep confirmation
}

func NewAlertScanner(
	bars domrepo.BarStore,
	cache domrepo.LevelsCache,
	metrics domrepo.Metrics,
	detector domsvc.AlertDetector,
	lvl *levels.Calculator,
	sweepCloses int,
) *AlertScanner {
	if sweepCloses <= 0 {
		sweepCloses = 3
	}
	return &AlertScanner{
		bars:        bars,
		cache:       cache,
		metrics:     metrics,
		detector:    detector,
		levels:      lvl,
		sweepCloses: sweepCloses,
		sweeps:      make(map[string]models.SweepSetup),
		closes:      make(map[string][]float64),
	}
}

// SetSweep registers (or replaces) the Asia-session low to monitor for a
// sweep-and-reclaim on symbol.
func (s *AlertScanner) SetSweep(symbol string, asiaLow float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps[symbol] = models.SweepSetup{Symbol: symbol, AsiaLow: asiaLow}
	s.closes[symbol] = nil
}

// ClearSweep drops the sweep watch for symbol, typically at session rollover.
func (s *AlertScanner) ClearSweep(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sweeps, symbol)
	delete(s.closes, symbol)
}

// OnBar runs all alert rules against one closed bar and returns the alerts
// that fired. Setup state transitions (range broken, low breached) are
// persisted before returning so the next bar sees them.
func (s *AlertScanner) OnBar(ctx context.Context, bar *models.Bar) ([]*models.Alert, error) {
	if bar == nil {
		return nil, fmt.Errorf("bar is nil")
	}
	if err := bar.Validate(); err != nil {
		s.metrics.RecordError("alert_bar_invalid")
		return nil, err
	}

	var alerts []*models.Alert

	setup, ok, err := s.cache.GetRangeSetup(ctx, bar.Symbol)
	if err != nil {
		s.metrics.RecordError("range_setup_get")
	} else if ok && setup != nil {
		if a, fired := s.detector.CheckRangeBreak(*setup, *bar); fired {
			alerts = append(alerts, a)
			if a.Direction == "bullish" {
				setup.BrokenUp = true
			} else {
				setup.BrokenDown = true
			}
			if err := s.cache.SetRangeSetup(ctx, setup); err != nil {
				s.metrics.RecordError("range_setup_set")
			}
		} else if a, fired := s.detector.CheckRetest(*setup, bar.Close, *bar); fired {
			alerts = append(alerts, a)
		}
	}

	if lv, ok, err := s.cache.GetLevels(ctx, bar.Symbol, bar.Timestamp.UTC().Truncate(24*time.Hour)); err == nil && ok {
		if ladder, err := s.levels.Pivots(lv); err == nil {
			alerts = append(alerts, s.detector.CheckPivotTouch(ladder, *bar)...)
		}
	} else if err != nil {
		s.metrics.RecordError("levels_cache_get")
	}

	if a := s.checkSweep(bar); a != nil {
		alerts = append(alerts, a)
	}

	for _, a := range alerts {
		s.metrics.RecordAlert(a.Symbol, string(a.Kind))
	}
	return alerts, nil
}

// checkSweep tracks the breach flag and the closes that follow it, and asks
// the detector whether the reclaim is confirmed. Only closes from bars after
// the breach bar count toward confirmation; a renewed dip below the low
// restarts the count.
func (s *AlertScanner) checkSweep(bar *models.Bar) *models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	setup, ok := s.sweeps[bar.Symbol]
	if !ok {
		return nil
	}
	if bar.Low < setup.AsiaLow {
		setup.Breached = true
		s.sweeps[bar.Symbol] = setup
		s.closes[bar.Symbol] = nil
		return nil
	}
	if !setup.Breached {
		return nil
	}

	cs := append(s.closes[bar.Symbol], bar.Close)
	if len(cs) > s.sweepCloses {
		cs = cs[len(cs)-s.sweepCloses:]
	}
	s.closes[bar.Symbol] = cs

	a, fired := s.detector.CheckAsiaSweep(setup, cs, *bar)
	if !fired {
		return nil
	}
	// one confirmation per setup
	delete(s.sweeps, bar.Symbol)
	delete(s.closes, bar.Symbol)
	return a
}

// Scan fetches the latest bars for symbol and evaluates the newest one. Used
// by the on-demand scan endpoint; the streaming path goes through OnBar.
func (s *AlertScanner) Scan(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) ([]*models.Alert, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if n <= 0 {
		n = 50
	}
	if !domrepo.IsValidTimeframe(tf) {
		tf = domrepo.DefaultTimeframe()
	}
	bars, err := s.bars.GetLatestNBars(ctx, symbol, n, tf)
	if err != nil {
		s.metrics.RecordError("bars_fetch")
		return nil, fmt.Errorf("get bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars for %s", symbol)
	}
	last := bars[len(bars)-1]
	return s.OnBar(ctx, &last)
}
