// journal/csv.go
package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

type CSVJournal struct {
	trades *csv.Writer
	allocs *csv.Writer
	tf, af *os.File
}

func NewCSV(tradesPath, allocPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	af, err := os.Create(allocPath)
	if err != nil {
		return nil, err
	}

	tw := csv.NewWriter(tf)
	aw := csv.NewWriter(af)

	if err := tw.Write([]string{"trade_id", "symbol", "strategy", "side", "size", "entry_price", "exit_price", "open_time", "close_time", "realized_pl", "risk_percent", "reason"}); err != nil {
		return nil, err
	}
	if err := aw.Write([]string{"record_id", "time", "regime", "confidence", "volatility", "cash_reserve", "reason", "allocations"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	aw.Flush()
	if err := aw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{tw, aw, tf, af}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	j.trades.Write([]string{
		t.TradeID,
		t.Symbol,
		t.Strategy,
		t.Side,
		f(t.Size),
		f(t.EntryPrice),
		f(t.ExitPrice),
		t.OpenTime.Format(time.RFC3339),
		t.CloseTime.Format(time.RFC3339),
		f(t.RealizedPL),
		f(t.RiskPercent),
		t.Reason,
	})
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordRebalance(r RebalanceRecord) error {
	j.allocs.Write([]string{
		r.RecordID,
		r.Time.Format(time.RFC3339),
		r.Regime,
		f(r.Confidence),
		r.Volatility,
		f(r.CashReserve),
		r.Reason,
		flattenAllocations(r.Allocations),
	})
	j.allocs.Flush()
	return j.allocs.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.allocs.Flush()
	if err := j.allocs.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	if err := j.af.Close(); err != nil {
		return err
	}
	return nil
}

// flattenAllocations renders allocations as "name=frac;..." in name order so
// rows stay diffable.
func flattenAllocations(allocs map[string]float64) string {
	names := make([]string, 0, len(allocs))
	for name := range allocs {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%s", name, f(allocs[name]))
	}
	return strings.Join(parts, ";")
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
