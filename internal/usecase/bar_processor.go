package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	drepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
)

// BarProcessor runs the alert rules on each closed bar and hands qualifying
// alerts to the dispatch publisher.
type BarProcessor struct {
	scanner *AlertScanner
	pub     drepo.AlertPublisher
	metrics drepo.Metrics
}

// NewBarProcessor creates a new BarProcessor instance.
func NewBarProcessor(scanner *AlertScanner, pub drepo.AlertPublisher, metrics drepo.Metrics) *BarProcessor {
	return &BarProcessor{scanner: scanner, pub: pub, metrics: metrics}
}

// Process scans a single bar and publishes whatever fired.
func (p *BarProcessor) Process(ctx context.Context, b *models.Bar) error {
	if b == nil {
		return fmt.Errorf("bar is nil")
	}

	start := time.Now()
	alerts, err := p.scanner.OnBar(ctx, b)
	if err != nil {
		p.metrics.RecordError("scan")
		return fmt.Errorf("scan bar: %w", err)
	}
	if len(alerts) > 0 {
		if err := p.pub.PublishBatch(ctx, alerts); err != nil {
			p.metrics.RecordError("alert_publish")
			return fmt.Errorf("publish alerts: %w", err)
		}
	}
	p.metrics.RecordLatency("process", time.Since(start).Seconds())
	return nil
}

// ProcessBatch scans bars in order; ordering matters because setup state
// transitions between bars.
func (p *BarProcessor) ProcessBatch(ctx context.Context, bars []*models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	start := time.Now()
	for _, b := range bars {
		if err := p.Process(ctx, b); err != nil {
			return fmt.Errorf("process batch: %w", err)
		}
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())
	return nil
}

// Close closes underlying resources if available.
func (p *BarProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
}
