package repository

import (
	"strings"
	"testing"

	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
)

func TestSchemaCoversEveryQueryableTable(t *testing.T) {
	stmts := Schema()
	ddl := strings.Join(stmts, "\n")

	for _, tf := range []domrepo.Timeframe{domrepo.TF5m, domrepo.TF15m, domrepo.TF1h, domrepo.TF4h, domrepo.TF1d} {
		table, err := tableForTF(tf)
		if err != nil {
			t.Fatalf("tableForTF(%s): %v", tf, err)
		}
		if !strings.Contains(ddl, "CREATE TABLE IF NOT EXISTS "+table+" ") {
			t.Fatalf("schema missing table %s for timeframe %s", table, tf)
		}
	}
	if !strings.Contains(ddl, "tradecore.decisions") {
		t.Fatalf("schema missing decision audit table")
	}
	if stmts[0] != "CREATE DATABASE IF NOT EXISTS tradecore" {
		t.Fatalf("database must be created first, got %q", stmts[0])
	}
}
