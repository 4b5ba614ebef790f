package usecase

import (
	"context"
	"testing"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/levels"
)

func newProcessor(det *fakeDetector, cache *fakeLevelsCache) (*BarProcessor, *fakeAlertPublisher, *fakeMetrics) {
	metrics := newFakeMetrics()
	scanner := NewAlertScanner(&fakeBarStore{}, cache, metrics, det, levels.NewCalculator(), 3)
	pub := &fakeAlertPublisher{}
	return NewBarProcessor(scanner, pub, metrics), pub, metrics
}

func TestProcessPublishesFiredAlerts(t *testing.T) {
	cache := newFakeLevelsCache()
	cache.SetRangeSetup(context.Background(), &models.RangeSetup{Symbol: "NQ", High: 105, Low: 95})
	proc, pub, _ := newProcessor(&fakeDetector{fireRangeBreak: true, breakDirection: "bullish"}, cache)

	if err := proc.Process(context.Background(), scanBar("NQ", 106)); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("fired alert not published, got %d", len(pub.published))
	}
}

func TestProcessQuietBarPublishesNothing(t *testing.T) {
	proc, pub, _ := newProcessor(&fakeDetector{}, newFakeLevelsCache())
	if err := proc.Process(context.Background(), scanBar("NQ", 100)); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("quiet bar must not publish, got %d", len(pub.published))
	}
}

func TestProcessPublishFailure(t *testing.T) {
	cache := newFakeLevelsCache()
	cache.SetRangeSetup(context.Background(), &models.RangeSetup{Symbol: "NQ", High: 105, Low: 95})
	proc, pub, metrics := newProcessor(&fakeDetector{fireRangeBreak: true, breakDirection: "bullish"}, cache)
	pub.err = errBoom

	if err := proc.Process(context.Background(), scanBar("NQ", 106)); err == nil {
		t.Fatalf("publish failure must propagate")
	}
	if metrics.errs["alert_publish"] != 1 {
		t.Fatalf("publish error not recorded")
	}
}

func TestProcessBatchKeepsOrder(t *testing.T) {
	cache := newFakeLevelsCache()
	cache.SetRangeSetup(context.Background(), &models.RangeSetup{Symbol: "NQ", High: 105, Low: 95})
	proc, pub, _ := newProcessor(&fakeDetector{fireRangeBreak: true, breakDirection: "bullish"}, cache)

	// the break fires on the first bar and marks the setup; the second stays quiet
	bars := []*models.Bar{scanBar("NQ", 106), scanBar("NQ", 107)}
	if err := proc.ProcessBatch(context.Background(), bars); err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("want exactly one alert across the batch, got %d", len(pub.published))
	}
}

func TestProcessNilBar(t *testing.T) {
	proc, _, _ := newProcessor(&fakeDetector{}, newFakeLevelsCache())
	if err := proc.Process(context.Background(), nil); err == nil {
		t.Fatalf("nil bar must be rejected")
	}
}

func TestCloseClosesPublisher(t *testing.T) {
	proc, pub, _ := newProcessor(&fakeDetector{}, newFakeLevelsCache())
	proc.Close()
	if !pub.closed {
		t.Fatalf("close must reach the publisher")
	}
}
