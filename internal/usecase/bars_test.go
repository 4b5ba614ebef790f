package usecase

import (
	"context"
	"testing"
	"time"

	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
)

func TestGetBarsValidation(t *testing.T) {
	uc := NewBarsUseCase(&fakeBarStore{})
	now := time.Now().UTC()

	if _, err := uc.GetBars(context.Background(), GetBarsParams{From: now.Add(-time.Hour), To: now}); err == nil {
		t.Fatalf("empty symbol must be rejected")
	}
	if _, err := uc.GetBars(context.Background(), GetBarsParams{Symbol: "NQ", From: now, To: now.Add(-time.Hour)}); err == nil {
		t.Fatalf("from after to must be rejected")
	}
}

func TestGetBarsDefaultsAndLimit(t *testing.T) {
	end := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	store := &fakeBarStore{bars: hourlyBars("NQ", 10, end, 100)}
	uc := NewBarsUseCase(store)

	res, err := uc.GetBars(context.Background(), GetBarsParams{
		Symbol:    "NQ",
		From:      end.Add(-24 * time.Hour),
		To:        end,
		Timeframe: "bogus",
		Limit:     5,
	})
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}
	if store.lastTF != domrepo.TF1h {
		t.Fatalf("invalid timeframe must fall back to 1h, got %s", store.lastTF)
	}
	if res.Count != 5 || len(res.Bars) != 5 {
		t.Fatalf("limit not applied: count=%d bars=%d", res.Count, len(res.Bars))
	}
	if res.Timeframe != "1h" || res.Symbol != "NQ" {
		t.Fatalf("result must echo the resolved query: %+v", res)
	}
}

func TestGetBarsStoreError(t *testing.T) {
	uc := NewBarsUseCase(&fakeBarStore{err: errBoom})
	now := time.Now().UTC()
	if _, err := uc.GetBars(context.Background(), GetBarsParams{Symbol: "NQ", From: now.Add(-time.Hour), To: now}); err == nil {
		t.Fatalf("store error must propagate")
	}
}
