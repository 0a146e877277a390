package regime

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/allocator/indicators"
	"github.com/rustyeddy/allocator/market"
	"github.com/rustyeddy/allocator/signals"
)

// Composite score weights. The higher-timeframe weight is redistributed
// pro-rata when too little history exists to resample a weekly trend.
const (
	weightTrend     = 0.30
	weightStructure = 0.25
	weightMomentum  = 0.20
	weightVolume    = 0.15
	weightRisk      = 0.10
)

const (
	bullThreshold     = 0.5
	bearThreshold     = -0.5
	sidewaysThreshold = 0.2
	minConfidence     = 0.3
)

// keySignals are the signals that vote on classification confidence.
var keySignals = []string{
	signals.HigherTFTrend,
	signals.MarketStructure,
	signals.Momentum,
	signals.RiskEnvironment,
}

// Classifier turns multi-asset OHLCV data into a regime Result. It tracks
// the current regime across calls so that duration survives re-analysis.
// Not safe for concurrent use.
type Classifier struct {
	current  MarketRegime
	duration int

	logger zerolog.Logger
	now    func() time.Time
}

// NewClassifier returns a Classifier with no prior regime.
func NewClassifier() *Classifier {
	return &Classifier{
		logger: log.With().Str("component", "classifier").Logger(),
		now:    time.Now,
	}
}

// Analyze classifies the market from the given series, keyed by symbol.
// The primary series is BTC when it has enough history, otherwise the
// longest usable series. With no usable series it falls back to the
// neutral result rather than failing.
func (c *Classifier) Analyze(data map[string]market.Series) Result {
	primary, symbol := primarySeries(data)
	if primary == nil {
		c.logger.Warn().Msg("no series with enough history, using neutral regime")
		res := Neutral(c.now())
		res.DurationDays = c.advance(res.MarketRegime)
		return res
	}

	set := signals.Extract(primary)
	regime, score := classify(set)
	confidence := confidence(set, regime)

	res := Result{
		MarketRegime:      regime,
		Volatility:        volatilityRegime(set),
		RiskEnvironment:   riskEnvironment(set),
		FundamentalHealth: fundamentalHealth(set),
		Confidence:        confidence,
		DurationDays:      c.advance(regime),
		Signals:           set,
		Timestamp:         c.now(),
	}

	c.logger.Debug().
		Str("symbol", symbol).
		Str("regime", string(regime)).
		Float64("score", score).
		Float64("confidence", confidence).
		Msg("regime classified")
	return res
}

// Current returns the tracked regime and its duration in calls.
func (c *Classifier) Current() (MarketRegime, int) {
	return c.current, c.duration
}

func (c *Classifier) advance(r MarketRegime) int {
	if r == c.current {
		c.duration++
	} else {
		c.current = r
		c.duration = 1
	}
	return c.duration
}

// primarySeries picks the series to classify on: BTC when long enough,
// otherwise the longest series with sufficient history. Symbol order
// breaks length ties so the choice is deterministic.
func primarySeries(data map[string]market.Series) (market.Series, string) {
	if s, ok := data["BTC"]; ok && len(s) >= signals.MinBars {
		return s, "BTC"
	}

	symbols := make([]string, 0, len(data))
	for sym := range data {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var best market.Series
	bestSym := ""
	for _, sym := range symbols {
		if s := data[sym]; len(s) >= signals.MinBars && len(s) > len(best) {
			best, bestSym = s, sym
		}
	}
	return best, bestSym
}

// classify buckets the weighted composite score into a regime label.
func classify(set signals.SignalSet) (MarketRegime, float64) {
	sum := set.Get(signals.MarketStructure)*weightStructure +
		set.Get(signals.Momentum)*weightMomentum +
		set.Get(signals.VolumeTrend)*weightVolume +
		set.Get(signals.RiskEnvironment)*weightRisk

	usedWeight := 1.0
	if set.Get(signals.HigherTFCoverage) > 0 {
		sum += set.Get(signals.HigherTFTrend) * weightTrend
	} else {
		usedWeight -= weightTrend
	}
	score := sum / usedWeight

	switch {
	case score > bullThreshold:
		return Bull, score
	case score < bearThreshold:
		return Bear, score
	case score > -sidewaysThreshold && score < sidewaysThreshold:
		return Sideways, score
	default:
		return Transitional, score
	}
}

// confidence is the fraction of key signals agreeing in sign, penalized
// for transitional regimes and floored at minConfidence.
func confidence(set signals.SignalSet, regime MarketRegime) float64 {
	positive, negative := 0, 0
	for _, name := range keySignals {
		v := set.Get(name)
		switch {
		case v > 0.2:
			positive++
		case v < -0.2:
			negative++
		}
	}

	agree := positive
	if negative > agree {
		agree = negative
	}
	conf := float64(agree) / float64(len(keySignals))
	if regime == Transitional {
		conf -= 0.2
	}
	if conf < minConfidence {
		conf = minConfidence
	}
	return conf
}

func volatilityRegime(set signals.SignalSet) VolatilityRegime {
	atrPct := set.Get(signals.ATRPercentile)
	volScore := set.Get(signals.VolatilityScore)
	switch {
	case atrPct > 0.9 || volScore > 0.8:
		return VolExplosive
	case atrPct > 0.7 || volScore > 0.3:
		return VolHigh
	case atrPct < 0.3 || volScore < -0.3:
		return VolLow
	default:
		return VolNormal
	}
}

func riskEnvironment(set signals.SignalSet) RiskEnvironment {
	switch v := set.Get(signals.RiskEnvironment); {
	case v > 0.3:
		return RiskOn
	case v < -0.3:
		return RiskOff
	default:
		return RiskNeutral
	}
}

// fundamentalHealth proxies market health from the weekly trend, the
// price/volume relationship and medium-term momentum.
func fundamentalHealth(set signals.SignalSet) FundamentalHealth {
	score := set.Get(signals.HigherTFTrend)*0.4 +
		set.Get(signals.PriceVolumeCorr)*0.3 +
		indicators.Clip(set.Get(signals.Momentum30)*100, -1, 1)*0.3

	switch {
	case score > 0.4:
		return Healthy
	case score < -0.4:
		return Deteriorating
	default:
		return Warning
	}
}
