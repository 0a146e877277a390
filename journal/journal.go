// Package journal persists trade outcomes and rebalancing decisions to CSV
// files or SQLite.
package journal

import "time"

// TradeRecord is one closed trade.
type TradeRecord struct {
	TradeID     string
	Symbol      string
	Strategy    string
	Side        string
	Size        float64
	EntryPrice  float64
	ExitPrice   float64
	OpenTime    time.Time
	CloseTime   time.Time
	RealizedPL  float64
	RiskPercent float64
	Reason      string
}

// RebalanceRecord is one portfolio rebalancing decision.
type RebalanceRecord struct {
	RecordID    string
	Time        time.Time
	Regime      string
	Confidence  float64
	Volatility  string
	CashReserve float64
	Reason      string
	Allocations map[string]float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordRebalance(RebalanceRecord) error
	Close() error
}
