package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
)

// CHDecisionStore persists decisions append-only in ClickHouse and answers
// trailing-window aggregation queries.
type CHDecisionStore struct {
	db    *sql.DB
	table string
}

// NewCHDecisionStore creates ClickHouse-backed decision storage.
func NewCHDecisionStore(db *sql.DB, table string) domrepo.DecisionStore {
	if table == "" {
		table = "tradecore.decisions"
	}
	return &CHDecisionStore{db: db, table: table}
}

func (s *CHDecisionStore) Append(ctx context.Context, d *models.Decision) error {
	if d == nil {
		return fmt.Errorf("decision is nil")
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (ts, symbol, verdict, reason, confidence, reward_ratio, risk_mode, high_risk_event) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		s.table,
	)
	_, err := s.db.ExecContext(ctx, q,
		d.Timestamp,
		d.Symbol,
		string(d.Verdict),
		d.Reason,
		d.Confidence,
		d.RewardRatio,
		string(d.Risk.Mode),
		d.HighRiskEvent,
	)
	if err != nil {
		return fmt.Errorf("append decision: %w", err)
	}
	return nil
}

func (s *CHDecisionStore) Aggregate(ctx context.Context, symbol string, from, to time.Time) (*models.DecisionStats, error) {
	q := fmt.Sprintf(`
        SELECT verdict, count() AS n, avg(confidence) AS avg_conf, avg(reward_ratio) AS avg_ratio
        FROM %s
        WHERE symbol = ? AND ts >= ? AND ts <= ?
        GROUP BY verdict
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregate decisions: %w", err)
	}
	defer rows.Close()

	stats := &models.DecisionStats{
		Symbol:    symbol,
		From:      from,
		To:        to,
		ByVerdict: map[models.Verdict]int{},
	}
	var confSum, ratioSum float64
	for rows.Next() {
		var (
			verdict  string
			n        uint64
			avgConf  float64
			avgRatio float64
		)
		if err := rows.Scan(&verdict, &n, &avgConf, &avgRatio); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		count := int(n)
		stats.ByVerdict[models.Verdict(verdict)] = count
		stats.Total += count
		confSum += avgConf * float64(count)
		ratioSum += avgRatio * float64(count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if stats.Total > 0 {
		stats.ExecuteRate = float64(stats.ByVerdict[models.VerdictExecute]) / float64(stats.Total)
		stats.AvgConfidence = confSum / float64(stats.Total)
		stats.AvgRatio = ratioSum / float64(stats.Total)
	}
	return stats, nil
}

func (s *CHDecisionStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHDecisionStore) Close() error {
	return nil // Managed by pkg
}
