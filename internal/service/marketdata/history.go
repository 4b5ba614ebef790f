package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	drepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
	xhttp "github.com/umi1970/TradeMatrix-sub001/pkg/http"
)

// History fetches historical closed bars over the provider's REST candle
// endpoint. The streaming client only sees bars from subscription onward;
// this fills the window behind it.
type History struct {
	apiKey  string
	baseURL string
	hc      *xhttp.Client
}

// NewHistory creates a REST history fetcher.
func NewHistory(apiKey, baseURL string, timeout time.Duration) *History {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &History{
		apiKey:  apiKey,
		baseURL: baseURL,
		hc:      xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// restCandles is the provider's column-oriented candle response.
type restCandles struct {
	S string    `json:"s"`
	T []int64   `json:"t"` // unix seconds
	O []float64 `json:"o"`
	H []float64 `json:"h"`
	L []float64 `json:"l"`
	C []float64 `json:"c"`
	V []int64   `json:"v"`
}

// DailyBars returns up to n daily bars ending strictly before 'to', ascending.
func (h *History) DailyBars(ctx context.Context, symbol string, to time.Time, n int) ([]models.Bar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if n <= 0 {
		n = 21
	}
	to = to.UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -2*n) // generous window; weekends thin the series

	var rc restCandles
	err := h.hc.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    h.baseURL + "/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {"D"},
			"from":       {strconv.FormatInt(from.Unix(), 10)},
			"to":         {strconv.FormatInt(to.Unix(), 10)},
			"token":      {h.apiKey},
		},
	}, &rc)
	if err != nil {
		return nil, fmt.Errorf("candles %s: %w", symbol, err)
	}
	if rc.S != "ok" {
		return nil, fmt.Errorf("candles %s: provider status %q", symbol, rc.S)
	}

	bars := make([]models.Bar, 0, len(rc.T))
	for i, ts := range rc.T {
		if i >= len(rc.O) || i >= len(rc.H) || i >= len(rc.L) || i >= len(rc.C) {
			break
		}
		t := time.Unix(ts, 0).UTC()
		if !t.Before(to) {
			continue
		}
		var vol int64
		if i < len(rc.V) {
			vol = rc.V[i]
		}
		bars = append(bars, models.Bar{
			Timestamp: t,
			Symbol:    symbol,
			Open:      rc.O[i],
			High:      rc.H[i],
			Low:       rc.L[i],
			Close:     rc.C[i],
			Volume:    vol,
		})
	}
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return bars, nil
}

var _ drepo.BarHistory = (*History)(nil)
