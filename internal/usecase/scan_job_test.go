package usecase

import (
	"context"
	"testing"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/levels"
)

func newScanJob(store *fakeBarStore, det *fakeDetector, cache *fakeLevelsCache) (*ScanJob, *fakeAlertPublisher, *fakeMetrics) {
	metrics := newFakeMetrics()
	scanner := NewAlertScanner(store, cache, metrics, det, levels.NewCalculator(), 3)
	pub := &fakeAlertPublisher{}
	return NewScanJob(scanner, pub, metrics), pub, metrics
}

func TestScanJobIdentity(t *testing.T) {
	j, _, _ := newScanJob(&fakeBarStore{}, &fakeDetector{}, newFakeLevelsCache())
	if j.Name() != "alert_scan" || j.Type() != "scan_request" {
		t.Fatalf("job identity changed: %s/%s", j.Name(), j.Type())
	}
}

func TestScanJobHandle(t *testing.T) {
	store := &fakeBarStore{bars: hourlyBars("NQ", 5, scanTS, 106)}
	cache := newFakeLevelsCache()
	cache.SetRangeSetup(context.Background(), &models.RangeSetup{Symbol: "NQ", High: 105, Low: 95})
	j, pub, _ := newScanJob(store, &fakeDetector{fireRangeBreak: true, breakDirection: "bullish"}, cache)

	err := j.Handle(context.Background(), map[string]interface{}{"symbol": "NQ", "n": 5, "tf": "1h"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("fired alert not published, got %d", len(pub.published))
	}
}

func TestScanJobBadPayload(t *testing.T) {
	j, _, metrics := newScanJob(&fakeBarStore{}, &fakeDetector{}, newFakeLevelsCache())
	if err := j.Handle(context.Background(), 42); err == nil {
		t.Fatalf("unparseable payload must error")
	}
	if metrics.errs["scan_job_payload"] != 1 {
		t.Fatalf("payload error not recorded")
	}
}

func TestScanJobScanFailure(t *testing.T) {
	j, _, metrics := newScanJob(&fakeBarStore{err: errBoom}, &fakeDetector{}, newFakeLevelsCache())
	if err := j.Handle(context.Background(), map[string]interface{}{"symbol": "NQ"}); err == nil {
		t.Fatalf("scan failure must propagate for the queue's retry path")
	}
	if metrics.errs["scan_job"] != 1 {
		t.Fatalf("scan error not recorded")
	}
}
