package usecase

import (
	"context"
	"fmt"

	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
	"github.com/umi1970/TradeMatrix-sub001/pkg/queue"
)

// ScanRequest is the payload of a queued alert scan.
type ScanRequest struct {
	Symbol string `json:"symbol"`
	N      int    `json:"n"`
	TF     string `json:"tf"`
}

// ScanJob handles queued scan requests. External schedulers enqueue one
// request per symbol per interval; the job runs the alert rules and hands
// qualifying alerts to the dispatch publisher.
type ScanJob struct {
	scanner *AlertScanner
	pub     domrepo.AlertPublisher
	metrics domrepo.Metrics
}

func NewScanJob(scanner *AlertScanner, pub domrepo.AlertPublisher, metrics domrepo.Metrics) *ScanJob {
	return &ScanJob{scanner: scanner, pub: pub, metrics: metrics}
}

func (j *ScanJob) Name() string { return "alert_scan" }

func (j *ScanJob) Type() string { return "scan_request" }

func (j *ScanJob) Handle(ctx context.Context, payload interface{}) error {
	req, err := queue.ParsePayload[ScanRequest](payload)
	if err != nil {
		j.metrics.RecordError("scan_job_payload")
		return fmt.Errorf("parse scan request: %w", err)
	}
	alerts, err := j.scanner.Scan(ctx, req.Symbol, req.N, domrepo.NormalizeTimeframe(req.TF))
	if err != nil {
		j.metrics.RecordError("scan_job")
		return fmt.Errorf("scan %s: %w", req.Symbol, err)
	}
	if len(alerts) == 0 {
		return nil
	}
	if err := j.pub.PublishBatch(ctx, alerts); err != nil {
		j.metrics.RecordError("scan_job_publish")
		return fmt.Errorf("publish alerts: %w", err)
	}
	return nil
}

var _ queue.Job = (*ScanJob)(nil)
