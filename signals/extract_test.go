package signals

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/allocator/market"
)

func TestExtractShortSeriesIsNeutral(t *testing.T) {
	t.Parallel()

	got := Extract(market.Trending(MinBars-1, 50000, 0.005))
	assert.Equal(t, Neutral(), got)

	got = Extract(nil)
	assert.Equal(t, Neutral(), got)
}

func TestExtractDeterministic(t *testing.T) {
	t.Parallel()

	s := market.Trending(120, 45000, 0.004)
	assert.Equal(t, Extract(s), Extract(s))
}

func TestExtractScoresWithinDocumentedRanges(t *testing.T) {
	t.Parallel()

	series := map[string]market.Series{
		"rising":  market.Trending(200, 45000, 0.005),
		"falling": market.Trending(200, 45000, -0.005),
		"flat":    market.Flat(200, 45000, 0.0001),
		"short":   market.Trending(30, 45000, 0.01),
	}

	for name, s := range series {
		s := s
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			set := Extract(s)
			for sig, v := range set {
				assert.False(t, math.IsNaN(v), "signal %s is NaN", sig)
				switch sig {
				case ATRPercentile, HigherTFCoverage:
					assert.GreaterOrEqual(t, v, 0.0, "signal %s", sig)
					assert.LessOrEqual(t, v, 1.0, "signal %s", sig)
				default:
					assert.GreaterOrEqual(t, v, -1.0, "signal %s", sig)
					assert.LessOrEqual(t, v, 1.0, "signal %s", sig)
				}
			}
		})
	}
}

func TestExtractTrendDirection(t *testing.T) {
	t.Parallel()

	up := Extract(market.Trending(50, 45000, 0.005))
	assert.InDelta(t, 1.0, up.Get(MarketStructure), 1e-9)
	assert.Greater(t, up.Get(Momentum), 0.4)
	assert.Greater(t, up.Get(RiskEnvironment), 0.2)

	down := Extract(market.Trending(50, 45000, -0.005))
	assert.InDelta(t, -1.0, down.Get(MarketStructure), 1e-9)
	assert.Less(t, down.Get(Momentum), -0.4)
}

func TestExtractFlatSeriesScoresNearZero(t *testing.T) {
	t.Parallel()

	set := Extract(market.Flat(50, 45000, 0.0001))
	assert.InDelta(t, 0.0, set.Get(MarketStructure), 0.1)
	assert.InDelta(t, 0.0, set.Get(Momentum), 0.05)
	assert.InDelta(t, 0.0, set.Get(VolumeTrend), 1e-9)
}

func TestHigherTimeframeCoverage(t *testing.T) {
	t.Parallel()

	// 50 daily bars span ~8 weeks: below the 12-week floor, so the weekly
	// trend is forced to zero rather than computed from thin data.
	short := Extract(market.Trending(50, 45000, 0.005))
	assert.Equal(t, 0.0, short.Get(HigherTFCoverage))
	assert.Equal(t, 0.0, short.Get(HigherTFTrend))

	long := Extract(market.Trending(200, 45000, 0.005))
	require.Equal(t, 1.0, long.Get(HigherTFCoverage))
	assert.Greater(t, long.Get(HigherTFTrend), 0.5)
}
