package journal

import (
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, symbol, strategy, side, size, entry_price, exit_price, open_time, close_time, realized_pl, risk_percent, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Symbol, t.Strategy, t.Side, t.Size, t.EntryPrice,
		t.ExitPrice, t.OpenTime, t.CloseTime, t.RealizedPL, t.RiskPercent, t.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordRebalance(r RebalanceRecord) error {
	allocs, err := json.Marshal(r.Allocations)
	if err != nil {
		return err
	}

	_, err = j.db.Exec(`
		INSERT INTO rebalances
		(record_id, time, regime, confidence, volatility, cash_reserve, reason, allocations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RecordID, r.Time, r.Regime, r.Confidence, r.Volatility,
		r.CashReserve, r.Reason, string(allocs),
	)
	return err
}

// ListRebalances returns rebalancing decisions in time order.
func (j *SQLiteJournal) ListRebalances() ([]RebalanceRecord, error) {
	rows, err := j.db.Query(`
		SELECT record_id, time, regime, confidence, volatility, cash_reserve, reason, allocations
		FROM rebalances ORDER BY time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RebalanceRecord
	for rows.Next() {
		var rec RebalanceRecord
		var allocs string
		if err := rows.Scan(&rec.RecordID, &rec.Time, &rec.Regime, &rec.Confidence,
			&rec.Volatility, &rec.CashReserve, &rec.Reason, &allocs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(allocs), &rec.Allocations); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
