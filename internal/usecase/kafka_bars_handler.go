package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
	pkgkafka "github.com/umi1970/TradeMatrix-sub001/pkg/kafka"
)

// KafkaBarsHandler consumes closed-bar events and runs them through the scan
// processor.
type KafkaBarsHandler struct {
	topic   string
	proc    *BarProcessor
	metrics domrepo.Metrics
}

func NewKafkaBarsHandler(topic string, proc *BarProcessor, metrics domrepo.Metrics) *KafkaBarsHandler {
	return &KafkaBarsHandler{topic: topic, proc: proc, metrics: metrics}
}

func (h *KafkaBarsHandler) Topic() string { return h.topic }

// incoming message schema: {symbol, t, o, h, l, c, v}
func (h *KafkaBarsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol string  `json:"symbol"`
		T      int64   `json:"t"`
		O      float64 `json:"o"`
		H      float64 `json:"h"`
		L      float64 `json:"l"`
		C      float64 `json:"c"`
		V      int64   `json:"v"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}
	// E2E latency from bar close to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.T, 0)).Seconds())

	bar := &models.Bar{
		Timestamp: time.Unix(m.T, 0).UTC(),
		Symbol:    m.Symbol,
		Open:      m.O,
		High:      m.H,
		Low:       m.L,
		Close:     m.C,
		Volume:    m.V,
	}
	if err := bar.Validate(); err != nil {
		h.metrics.RecordError("consumer_bar_invalid")
		return err
	}

	start := time.Now()
	err := h.proc.Process(ctx, bar)
	h.metrics.RecordLatency("scan_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_scan")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaBarsHandler)(nil)
