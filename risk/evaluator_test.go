package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvaluator() *Evaluator {
	return NewEvaluator(100000, DefaultLimits())
}

func goodProposal(symbol string) Proposal {
	return Proposal{
		Symbol:      symbol,
		Strategy:    "MegaMomentumStrategy",
		Side:        Long,
		EntryPrice:  50000,
		StopLoss:    48500,
		TargetPrice: 53000,
		Confidence:  0.85,
		Quality:     0.9,
		Volatility:  0.03,
	}
}

func TestEvaluateApprovesQualityTrade(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()
	a := e.Evaluate(goodProposal("BTC/USDT"))

	require.True(t, a.Approved, a.Reason)
	// Sizing factors multiply past the cap, so risk clips at the single-trade
	// maximum: 2.5% of 100k across a 1500-point stop.
	assert.InDelta(t, 0.025, a.RiskPercent, 1e-9)
	assert.InDelta(t, 2500.0, a.RiskAmount, 1e-9)
	assert.InDelta(t, 100000*0.025/1500, a.PositionSize, 1e-9)
	assert.InDelta(t, 2.0, a.RiskReward, 1e-9)
	assert.Equal(t, HeatLow, a.Heat)
	assert.Equal(t, 1.0, a.SizeReduction)
	assert.Empty(t, a.Warnings)
}

func TestTradeRiskTracksSingleTradeLimit(t *testing.T) {
	t.Parallel()

	// Sizing scales from the configured single-trade limit, so a tighter
	// limit sizes down and approves rather than rejecting.
	tight := DefaultLimits()
	tight.MaxSingleTrade = 0.01
	e := NewEvaluator(100000, tight)
	a := e.Evaluate(goodProposal("BTC/USDT"))
	require.True(t, a.Approved, a.Reason)
	assert.InDelta(t, 0.01, a.RiskPercent, 1e-9)
	assert.InDelta(t, 1000.0, a.RiskAmount, 1e-9)

	// A wider limit raises the cap with it.
	wide := DefaultLimits()
	wide.MaxSingleTrade = 0.03
	e = NewEvaluator(100000, wide)
	a = e.Evaluate(goodProposal("BTC/USDT"))
	require.True(t, a.Approved, a.Reason)
	assert.InDelta(t, 0.03, a.RiskPercent, 1e-9)
}

func TestEvaluateIsRepeatable(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()
	p := goodProposal("BTC/USDT")
	p.Quality = 0.1

	first := e.Evaluate(p)
	require.False(t, first.Approved)
	assert.Equal(t, first, e.Evaluate(p))
}

func TestEvaluateRejectsInvalidPrices(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()

	p := goodProposal("BTC/USDT")
	p.StopLoss = p.EntryPrice
	a := e.Evaluate(p)
	assert.False(t, a.Approved)
	assert.Contains(t, a.Reason, "invalid")

	p = goodProposal("BTC/USDT")
	p.EntryPrice = 0
	assert.False(t, e.Evaluate(p).Approved)
}

func TestEvaluateQualityAndConfidenceGates(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()

	p := goodProposal("BTC/USDT")
	p.Quality = 0.29
	a := e.Evaluate(p)
	require.False(t, a.Approved)
	assert.Contains(t, a.Reason, "quality")
	assert.Zero(t, a.PositionSize)

	p = goodProposal("BTC/USDT")
	p.Confidence = 0.39
	a = e.Evaluate(p)
	require.False(t, a.Approved)
	assert.Contains(t, a.Reason, "confidence")
}

func TestEvaluateRiskRewardGate(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()
	p := goodProposal("BTC/USDT")
	p.TargetPrice = 51000 // reward 1000 against a 1500-point stop

	a := e.Evaluate(p)
	require.False(t, a.Approved)
	assert.Contains(t, a.Reason, "risk/reward")

	// No target declared means no ratio to gate on.
	p.TargetPrice = 0
	assert.True(t, e.Evaluate(p).Approved)
}

func TestEvaluateSizingScalesWithConviction(t *testing.T) {
	t.Parallel()

	size := func(conf, quality float64) float64 {
		e := newTestEvaluator()
		p := goodProposal("BTC/USDT")
		p.Confidence = conf
		p.Quality = quality
		p.Volatility = 0.05 // keep sizing off the cap
		a := e.Evaluate(p)
		require.True(t, a.Approved, a.Reason)
		return a.RiskPercent
	}

	assert.Greater(t, size(0.9, 0.5), size(0.5, 0.5))
	assert.Greater(t, size(0.7, 0.9), size(0.7, 0.4))
}

func TestPortfolioRiskGate(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()

	// Loosely-correlated alts so the correlation gate stays quiet.
	for _, sym := range []string{"DOGE/USDT", "XRP/USDT"} {
		p := goodProposal(sym)
		a := e.Evaluate(p)
		require.True(t, a.Approved, a.Reason)
		e.OpenPosition(p, a)
	}
	require.Len(t, e.OpenPositions(), 2)

	a := e.Evaluate(goodProposal("PEPE/USDT"))
	require.False(t, a.Approved)
	assert.Contains(t, a.Reason, "portfolio risk")
}

func TestCorrelatedRiskGate(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()
	p := goodProposal("BTC/USDT")
	a := e.Evaluate(p)
	require.True(t, a.Approved)
	e.OpenPosition(p, a)

	// ETH runs at 0.75 correlation to BTC: same-side exposure busts the limit.
	same := goodProposal("ETH/USDT")
	rejected := e.Evaluate(same)
	require.False(t, rejected.Approved)
	assert.Contains(t, rejected.Reason, "correlated")

	// The opposite side hedges and passes.
	hedge := same
	hedge.Side = Short
	assert.True(t, e.Evaluate(hedge).Approved)
}

func TestHeatReducesSize(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()
	assert.Equal(t, HeatLow, e.Heat())

	for _, sym := range []string{"DOGE/USDT", "XRP/USDT"} {
		p := goodProposal(sym)
		a := e.Evaluate(p)
		require.True(t, a.Approved, a.Reason)
		e.OpenPosition(p, a)
	}
	assert.Equal(t, HeatHigh, e.Heat())

	// A small trade still fits, but high heat trims it by 20%.
	p := goodProposal("PEPE/USDT")
	p.Confidence = 0.45
	p.Quality = 0.35
	a := e.Evaluate(p)
	require.True(t, a.Approved, a.Reason)
	assert.Equal(t, 0.8, a.SizeReduction)
	assert.NotEmpty(t, a.Warnings)
}

func TestConsecutiveLossesPauseTrading(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()

	// Five small losses in a row: the streak trips before drawdown matters.
	for i := 0; i < 5; i++ {
		p := goodProposal("BTC/USDT")
		a := e.Evaluate(p)
		require.True(t, a.Approved, a.Reason)
		pos := e.OpenPosition(p, a)
		require.NoError(t, e.ClosePosition(pos.ID, -50))
	}
	assert.Equal(t, 5, e.LossStreak())

	a := e.Evaluate(goodProposal("BTC/USDT"))
	require.False(t, a.Approved)
	assert.Contains(t, a.Reason, "consecutive losses")

	// A winner resets the streak and reopens trading.
	p := goodProposal("BTC/USDT")
	e.lossStreak = 0
	a = e.Evaluate(p)
	require.True(t, a.Approved, a.Reason)
	pos := e.OpenPosition(p, a)
	require.NoError(t, e.ClosePosition(pos.ID, 500))
	assert.Zero(t, e.LossStreak())
}

func TestDrawdownGate(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()
	p := goodProposal("BTC/USDT")
	a := e.Evaluate(p)
	require.True(t, a.Approved)
	pos := e.OpenPosition(p, a)
	require.NoError(t, e.ClosePosition(pos.ID, -2500))

	assert.InDelta(t, 0.025, e.Drawdown(), 1e-9)
	assert.InDelta(t, 97500.0, e.Balance(), 1e-9)

	rejected := e.Evaluate(goodProposal("BTC/USDT"))
	require.False(t, rejected.Approved)
	assert.Contains(t, rejected.Reason, "drawdown")
}

func TestClosePositionUnknownID(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()
	assert.Error(t, e.ClosePosition("missing", 100))
}

func TestCorrelationLookup(t *testing.T) {
	t.Parallel()

	table := DefaultCorrelations()

	assert.Equal(t, 1.0, table.Lookup("BTC/USDT", "BTC/EUR"))
	assert.Equal(t, 0.75, table.Lookup("BTC/USDT", "ETH/USDT"))
	assert.Equal(t, 0.75, table.Lookup("ETH/USDT", "BTC/USDT"))
	assert.Equal(t, 0.55, table.Lookup("LINK/USDT", "UNI/USDT"))

	// Fallbacks for pairs outside the table.
	assert.Equal(t, 0.5, table.Lookup("BTC/USDT", "DOGE/USDT"))
	assert.Equal(t, 0.4, table.Lookup("DOGE/USDT", "XRP/USDT"))
}

func TestSummaryReportsHeat(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()
	out := e.Summary()
	assert.Contains(t, out, "LOW")
	assert.Contains(t, out, "Balance")
}
