package regime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/allocator/market"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAnalyzeBullMarket(t *testing.T) {
	t.Parallel()

	c := NewClassifier()
	c.now = fixedClock(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	res := c.Analyze(map[string]market.Series{
		"BTC": market.Trending(50, 45000, 0.005),
	})

	assert.Equal(t, Bull, res.MarketRegime)
	assert.Greater(t, res.Confidence, 0.5)
	assert.InDelta(t, 0.75, res.Confidence, 1e-9)
	assert.Equal(t, 1, res.DurationDays)
	assert.Equal(t, RiskOn, res.RiskEnvironment)
}

func TestAnalyzeBearMarket(t *testing.T) {
	t.Parallel()

	c := NewClassifier()
	res := c.Analyze(map[string]market.Series{
		"BTC": market.Trending(50, 45000, -0.005),
	})

	assert.Equal(t, Bear, res.MarketRegime)
	// Structure and momentum agree on the downside; the weekly trend is
	// unavailable at 50 bars and the risk score sits inside the dead band.
	assert.InDelta(t, 0.5, res.Confidence, 1e-9)
}

func TestAnalyzeSidewaysMarket(t *testing.T) {
	t.Parallel()

	c := NewClassifier()
	res := c.Analyze(map[string]market.Series{
		"BTC": market.Flat(50, 45000, 0.0001),
	})

	assert.Equal(t, Sideways, res.MarketRegime)
	assert.InDelta(t, 0.3, res.Confidence, 1e-9)
}

func TestAnalyzeDeterministic(t *testing.T) {
	t.Parallel()

	data := map[string]market.Series{
		"BTC": market.Trending(120, 45000, 0.004),
		"ETH": market.Trending(120, 2500, 0.003),
	}
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	a := NewClassifier()
	a.now = fixedClock(ts)
	b := NewClassifier()
	b.now = fixedClock(ts)

	assert.Equal(t, a.Analyze(data), b.Analyze(data))
}

func TestAnalyzeNeutralFallback(t *testing.T) {
	t.Parallel()

	c := NewClassifier()

	res := c.Analyze(nil)
	assert.Equal(t, Sideways, res.MarketRegime)
	assert.Equal(t, VolNormal, res.Volatility)
	assert.Equal(t, RiskNeutral, res.RiskEnvironment)
	assert.InDelta(t, 0.3, res.Confidence, 1e-9)

	// Too little history behaves the same as no data.
	res = c.Analyze(map[string]market.Series{
		"BTC": market.Trending(20, 45000, 0.01),
	})
	assert.Equal(t, Sideways, res.MarketRegime)
	assert.InDelta(t, 0.3, res.Confidence, 1e-9)
}

func TestDurationCountsConsecutiveCalls(t *testing.T) {
	t.Parallel()

	c := NewClassifier()
	rising := map[string]market.Series{"BTC": market.Trending(50, 45000, 0.005)}
	flat := map[string]market.Series{"BTC": market.Flat(50, 45000, 0.0001)}

	for want := 1; want <= 3; want++ {
		res := c.Analyze(rising)
		require.Equal(t, Bull, res.MarketRegime)
		assert.Equal(t, want, res.DurationDays)
	}

	// A regime change resets the counter.
	res := c.Analyze(flat)
	assert.Equal(t, Sideways, res.MarketRegime)
	assert.Equal(t, 1, res.DurationDays)

	regime, duration := c.Current()
	assert.Equal(t, Sideways, regime)
	assert.Equal(t, 1, duration)
}

func TestPrimarySeriesPrefersBTC(t *testing.T) {
	t.Parallel()

	data := map[string]market.Series{
		"BTC": market.Trending(60, 45000, 0.005),
		"ETH": market.Trending(200, 2500, -0.005),
	}
	s, sym := primarySeries(data)
	assert.Equal(t, "BTC", sym)
	assert.Len(t, s, 60)

	// Without a usable BTC series the longest one wins.
	data["BTC"] = market.Trending(10, 45000, 0.005)
	s, sym = primarySeries(data)
	assert.Equal(t, "ETH", sym)
	assert.Len(t, s, 200)
}

func TestPermissionsByRegime(t *testing.T) {
	t.Parallel()

	bull := Permissions(Result{MarketRegime: Bull, Confidence: 0.75})
	assert.Equal(t, Permission{Allocation: 0.40, Enabled: true}, bull[StrategyMegaMomentum])
	assert.False(t, bull[StrategyShort].Enabled)

	bear := Permissions(Result{MarketRegime: Bear, Confidence: 0.8})
	assert.Equal(t, Permission{Allocation: 0.50, Enabled: true}, bear[StrategyShort])
	assert.False(t, bear[StrategyMegaMomentum].Enabled)

	sideways := Permissions(Result{MarketRegime: Sideways, Confidence: 0.3})
	assert.Equal(t, Permission{Allocation: 0.60, Enabled: true}, sideways[StrategySmartLiquidity])

	// Directional regimes without conviction degrade to the defensive table.
	weak := Permissions(Result{MarketRegime: Bull, Confidence: 0.5})
	assert.Equal(t, Permission{Allocation: 0.60, Enabled: true}, weak[StrategyDefensive])
	assert.False(t, weak[StrategyMegaMomentum].Enabled)

	transitional := Permissions(Result{MarketRegime: Transitional, Confidence: 0.7})
	assert.Equal(t, Permission{Allocation: 0.40, Enabled: true}, transitional[StrategySmartLiquidity])
}

func TestSummaryIncludesLabels(t *testing.T) {
	t.Parallel()

	c := NewClassifier()
	res := c.Analyze(map[string]market.Series{"BTC": market.Trending(50, 45000, 0.005)})

	out := res.Summary()
	assert.Contains(t, out, "bull")
	assert.Contains(t, out, "Confidence")
}
