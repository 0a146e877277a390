package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLiteJournal, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','rebalances')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["rebalances"])
}

func TestSQLiteRecordTrade(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	open := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	closeT := time.Date(2024, 1, 2, 4, 5, 6, 0, time.UTC)

	rec := TradeRecord{
		TradeID:     "T1",
		Symbol:      "BTC/USDT",
		Strategy:    "MegaMomentumStrategy",
		Side:        "long",
		Size:        1.6667,
		EntryPrice:  50000,
		ExitPrice:   53000,
		OpenTime:    open,
		CloseTime:   closeT,
		RealizedPL:  5000.1,
		RiskPercent: 0.025,
		Reason:      "target",
	}

	assert.NoError(t, j.RecordTrade(rec))
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		tradeID   string
		symbol    string
		strategy  string
		side      string
		size      float64
		entry     float64
		exit      float64
		openTime  time.Time
		closeTime time.Time
		pl        float64
		riskPct   float64
		reason    string
	)

	err = db.QueryRow(`
        SELECT trade_id, symbol, strategy, side, size, entry_price, exit_price, open_time, close_time, realized_pl, risk_percent, reason
        FROM trades LIMIT 1`).Scan(
		&tradeID, &symbol, &strategy, &side, &size, &entry, &exit, &openTime, &closeTime, &pl, &riskPct, &reason,
	)
	require.NoError(t, err)

	assert.Equal(t, rec.TradeID, tradeID)
	assert.Equal(t, rec.Symbol, symbol)
	assert.Equal(t, rec.Strategy, strategy)
	assert.Equal(t, rec.Side, side)
	assert.InDelta(t, rec.Size, size, 1e-6)
	assert.InDelta(t, rec.EntryPrice, entry, 1e-9)
	assert.InDelta(t, rec.ExitPrice, exit, 1e-9)
	assert.True(t, openTime.Equal(rec.OpenTime))
	assert.True(t, closeTime.Equal(rec.CloseTime))
	assert.InDelta(t, rec.RealizedPL, pl, 1e-6)
	assert.InDelta(t, rec.RiskPercent, riskPct, 1e-9)
	assert.Equal(t, rec.Reason, reason)
}

func TestSQLiteRecordRebalance(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	rec := RebalanceRecord{
		RecordID:    "R1",
		Time:        time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
		Regime:      "bear",
		Confidence:  0.8,
		Volatility:  "normal",
		CashReserve: 0.07,
		Reason:      "initial allocation",
		Allocations: map[string]float64{
			"short_strategies": 0.372,
			"oversold_bounce":  0.2232,
		},
	}
	assert.NoError(t, j.RecordRebalance(rec))

	got, err := j.ListRebalances()
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, rec.RecordID, got[0].RecordID)
	assert.Equal(t, rec.Regime, got[0].Regime)
	assert.InDelta(t, rec.Confidence, got[0].Confidence, 1e-9)
	assert.InDelta(t, rec.CashReserve, got[0].CashReserve, 1e-9)
	assert.True(t, got[0].Time.Equal(rec.Time))
	assert.InDelta(t, 0.372, got[0].Allocations["short_strategies"], 1e-9)
	assert.InDelta(t, 0.2232, got[0].Allocations["oversold_bounce"], 1e-9)
}
