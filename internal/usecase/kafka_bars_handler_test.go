package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/services/levels"
)

func newBarsHandler() (*KafkaBarsHandler, *fakeAlertPublisher, *fakeMetrics) {
	metrics := newFakeMetrics()
	scanner := NewAlertScanner(&fakeBarStore{}, newFakeLevelsCache(), metrics, &fakeDetector{}, levels.NewCalculator(), 3)
	pub := &fakeAlertPublisher{}
	proc := NewBarProcessor(scanner, pub, metrics)
	return NewKafkaBarsHandler("market.bars", proc, metrics), pub, metrics
}

func TestHandleValidBar(t *testing.T) {
	h, _, _ := newBarsHandler()
	ts := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC).Unix()
	msg := fmt.Sprintf(`{"symbol":"NQ","t":%d,"o":100,"h":101,"l":99,"c":100.5,"v":1200}`, ts)
	if err := h.Handle(context.Background(), []byte(msg)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if h.Topic() != "market.bars" {
		t.Fatalf("topic = %q", h.Topic())
	}
}

func TestHandleMillisecondTimestamps(t *testing.T) {
	h, _, _ := newBarsHandler()
	ts := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC).UnixMilli()
	msg := fmt.Sprintf(`{"symbol":"NQ","t":%d,"o":100,"h":101,"l":99,"c":100.5,"v":1200}`, ts)
	if err := h.Handle(context.Background(), []byte(msg)); err != nil {
		t.Fatalf("ms timestamps must be accepted: %v", err)
	}
}

func TestHandleMalformedJSON(t *testing.T) {
	h, _, metrics := newBarsHandler()
	if err := h.Handle(context.Background(), []byte(`{"symbol":`)); err == nil {
		t.Fatalf("malformed json must error")
	}
	if metrics.errs["consumer_unmarshal"] != 1 {
		t.Fatalf("unmarshal error not recorded")
	}
}

func TestHandleInvalidBar(t *testing.T) {
	h, _, metrics := newBarsHandler()
	ts := time.Now().Unix()
	// high below low
	msg := fmt.Sprintf(`{"symbol":"NQ","t":%d,"o":100,"h":90,"l":99,"c":100,"v":1}`, ts)
	if err := h.Handle(context.Background(), []byte(msg)); err == nil {
		t.Fatalf("inconsistent ohlc must error")
	}
	if metrics.errs["consumer_bar_invalid"] != 1 {
		t.Fatalf("invalid bar error not recorded")
	}
}
