package repository

import (
	"fmt"

	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
)

const barColumns = "(ts DateTime, symbol String, open Float64, high Float64, low Float64, close Float64, vol Int64) ENGINE=MergeTree ORDER BY (symbol, ts)"

// Schema returns idempotent DDL for the database plus every table the
// repository layer queries: one bar table per supported timeframe and the
// decision audit log.
func Schema() []string {
	stmts := []string{"CREATE DATABASE IF NOT EXISTS tradecore"}
	for _, tf := range []domrepo.Timeframe{domrepo.TF5m, domrepo.TF15m, domrepo.TF1h, domrepo.TF4h, domrepo.TF1d} {
		table, err := tableForTF(tf)
		if err != nil {
			continue
		}
		stmts = append(stmts, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s %s", table, barColumns))
	}
	stmts = append(stmts,
		"CREATE TABLE IF NOT EXISTS tradecore.decisions (ts DateTime, symbol String, verdict String, reason String, confidence Float64, reward_ratio Float64, risk_mode String, high_risk_event UInt8) ENGINE=MergeTree ORDER BY (symbol, ts)")
	return stmts
}
