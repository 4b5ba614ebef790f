package indicator

import (
	"fmt"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
)

// Config holds the lookback periods the engine computes with. Immutable after
// construction so concurrent callers can share one engine.
type Config struct {
	SMAPeriod  int
	EMAShort   int
	EMAMedium  int
	EMALong    int
	RSIPeriod  int
	ATRPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	BBPeriod   int
	BBStdDev   float64
}

// DefaultConfig returns the conventional periods.
func DefaultConfig() Config {
	return Config{
		SMAPeriod:  20,
		EMAShort:   20,
		EMAMedium:  50,
		EMALong:    200,
		RSIPeriod:  14,
		ATRPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		BBPeriod:   20,
		BBStdDev:   2.0,
	}
}

// Engine computes a full IndicatorSet from an ordered bar series. Stateless;
// safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine, filling zero config fields with defaults.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.SMAPeriod <= 0 {
		cfg.SMAPeriod = def.SMAPeriod
	}
	if cfg.EMAShort <= 0 {
		cfg.EMAShort = def.EMAShort
	}
	if cfg.EMAMedium <= 0 {
		cfg.EMAMedium = def.EMAMedium
	}
	if cfg.EMALong <= 0 {
		cfg.EMALong = def.EMALong
	}
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = def.RSIPeriod
	}
	if cfg.ATRPeriod <= 0 {
		cfg.ATRPeriod = def.ATRPeriod
	}
	if cfg.MACDFast <= 0 {
		cfg.MACDFast = def.MACDFast
	}
	if cfg.MACDSlow <= 0 {
		cfg.MACDSlow = def.MACDSlow
	}
	if cfg.MACDSignal <= 0 {
		cfg.MACDSignal = def.MACDSignal
	}
	if cfg.BBPeriod <= 0 {
		cfg.BBPeriod = def.BBPeriod
	}
	if cfg.BBStdDev <= 0 {
		cfg.BBStdDev = def.BBStdDev
	}
	return &Engine{cfg: cfg}
}

// MinBars returns the smallest series length Compute accepts.
func (e *Engine) MinBars() int { return e.cfg.EMALong }

// Compute derives the full indicator set for bars. The series must cover the
// longest configured window.
func (e *Engine) Compute(bars []models.Bar) (models.IndicatorSet, error) {
	if len(bars) == 0 {
		return nil, ErrEmptySeries
	}
	if len(bars) < e.MinBars() {
		return nil, fmt.Errorf("need %d bars for ema_%d, have %d: %w", e.MinBars(), e.cfg.EMALong, len(bars), ErrSeriesTooShort)
	}
	closes := Closes(bars)
	set := make(models.IndicatorSet, 12)

	sma, err := SMA(closes, e.cfg.SMAPeriod)
	if err != nil {
		return nil, fmt.Errorf("sma: %w", err)
	}
	set[models.KeySMA20] = sma

	for _, p := range []struct {
		key    string
		period int
	}{
		{models.KeyEMA20, e.cfg.EMAShort},
		{models.KeyEMA50, e.cfg.EMAMedium},
		{models.KeyEMA200, e.cfg.EMALong},
	} {
		ema, err := EMA(closes, p.period)
		if err != nil {
			return nil, fmt.Errorf("ema_%d: %w", p.period, err)
		}
		set[p.key] = ema
	}

	rsi, err := RSI(closes, e.cfg.RSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}
	set[models.KeyRSI14] = rsi

	atr, err := ATR(bars, e.cfg.ATRPeriod)
	if err != nil {
		return nil, fmt.Errorf("atr: %w", err)
	}
	set[models.KeyATR14] = atr

	line, signal, hist, err := MACD(closes, e.cfg.MACDFast, e.cfg.MACDSlow, e.cfg.MACDSignal)
	if err != nil {
		return nil, fmt.Errorf("macd: %w", err)
	}
	set[models.KeyMACDLine] = line
	set[models.KeyMACDSignal] = signal
	set[models.KeyMACDHist] = hist

	upper, middle, lower, err := Bollinger(closes, e.cfg.BBPeriod, e.cfg.BBStdDev)
	if err != nil {
		return nil, fmt.Errorf("bollinger: %w", err)
	}
	set[models.KeyBBUpper] = upper
	set[models.KeyBBMiddle] = middle
	set[models.KeyBBLower] = lower

	return set, nil
}
