// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	strategy TEXT NOT NULL,
	side TEXT NOT NULL,
	size REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	open_time DATETIME NOT NULL,
	close_time DATETIME NOT NULL,
	realized_pl REAL NOT NULL,
	risk_percent REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rebalances (
	record_id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	regime TEXT NOT NULL,
	confidence REAL NOT NULL,
	volatility TEXT NOT NULL,
	cash_reserve REAL NOT NULL,
	reason TEXT NOT NULL,
	allocations TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rebalances_time ON rebalances(time);
`
