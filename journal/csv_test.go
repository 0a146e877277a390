package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()

	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	allocPath := filepath.Join(dir, "allocations.csv")

	j, err := NewCSV(tradesPath, allocPath)
	require.NoError(t, err)

	err = j.RecordTrade(TradeRecord{
		TradeID:     "T1",
		Symbol:      "ETH/USDT",
		Strategy:    "SmartLiquidityStrategy",
		Side:        "short",
		Size:        10,
		EntryPrice:  2500,
		ExitPrice:   2400,
		OpenTime:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		CloseTime:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		RealizedPL:  1000,
		RiskPercent: 0.01,
		Reason:      "target",
	})
	require.NoError(t, err)

	err = j.RecordRebalance(RebalanceRecord{
		RecordID:    "R1",
		Time:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Regime:      "sideways",
		Confidence:  0.3,
		Volatility:  "low",
		CashReserve: 0.12,
		Reason:      "regime change bull -> sideways",
		Allocations: map[string]float64{
			"mean_reversion":         0.25,
			"SmartLiquidityStrategy": 0.6,
		},
	})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	trades := readCSV(t, tradesPath)
	require.Len(t, trades, 2)
	assert.Equal(t, "trade_id", trades[0][0])
	assert.Equal(t, "T1", trades[1][0])
	assert.Equal(t, "ETH/USDT", trades[1][1])
	assert.Equal(t, "1000", trades[1][9])

	allocs := readCSV(t, allocPath)
	require.Len(t, allocs, 2)
	assert.Equal(t, "sideways", allocs[1][2])
	// Allocations flatten in name order.
	assert.Equal(t, "SmartLiquidityStrategy=0.6;mean_reversion=0.25", allocs[1][7])
}
