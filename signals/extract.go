// Package signals derives dimensionless feature scores from OHLCV series.
// Extract is a pure function: deterministic for identical input, no I/O.
package signals

import (
	"github.com/rustyeddy/allocator/indicators"
	"github.com/rustyeddy/allocator/market"
)

// MinBars is the minimum daily series length for meaningful extraction.
// Shorter input yields the neutral signal set, not an error.
const MinBars = 50

const (
	minWeeklyBars    = 12 // roughly three months of weekly bars
	structureWindow  = 20
	atrPeriod        = 14
	percentileWindow = 100
	bollingerPeriod  = 20
)

// Signal names. Scores are clipped to [-1, 1] unless noted.
const (
	HigherTFTrend    = "higher_tf_trend"
	HigherTFCoverage = "higher_tf_coverage" // 0 or 1
	WeeklyVolume     = "weekly_volume_trend"
	WeeklyAlignment  = "weekly_ema_alignment" // -1, 0 or 1
	MarketStructure  = "market_structure"
	VolatilityScore  = "volatility_regime" // -1, 0 or 1
	VolatilityTrend  = "volatility_trend"
	BollingerSqueeze = "bollinger_squeeze" // -1 or 0
	ATRPercentile    = "atr_percentile"    // raw percentile in [0, 1]
	RiskEnvironment  = "risk_environment"
	Momentum         = "momentum"
	Momentum10       = "momentum_10d"
	Momentum30       = "momentum_30d"
	VolumeRelative   = "volume_relative"
	VolumeTrend      = "volume_trend"
	PriceVolumeCorr  = "price_volume_correlation"
	RSIMomentum      = "rsi_momentum"
	RSITrend         = "rsi_trend"
)

// SignalSet maps signal names to scores.
type SignalSet map[string]float64

// Get returns the named score, or 0 when absent.
func (s SignalSet) Get(name string) float64 {
	return s[name]
}

// Neutral returns the signal set used when the input series is too short:
// every directional score zero, the ATR percentile at its midpoint.
func Neutral() SignalSet {
	return SignalSet{
		HigherTFTrend:    0,
		HigherTFCoverage: 0,
		WeeklyVolume:     0,
		WeeklyAlignment:  0,
		MarketStructure:  0,
		VolatilityScore:  0,
		VolatilityTrend:  0,
		BollingerSqueeze: 0,
		ATRPercentile:    0.5,
		RiskEnvironment:  0,
		Momentum:         0,
		Momentum10:       0,
		Momentum30:       0,
		VolumeRelative:   0,
		VolumeTrend:      0,
		PriceVolumeCorr:  0,
		RSIMomentum:      0,
		RSITrend:         0,
	}
}

// Extract derives the full signal set from a daily OHLCV series. Fewer than
// MinBars bars yields Neutral().
func Extract(daily market.Series) SignalSet {
	if len(daily) < MinBars {
		return Neutral()
	}

	set := SignalSet{}
	higherTimeframe(daily, set)
	structure(daily, set)
	volatility(daily, set)
	riskEnvironment(daily, set)
	volumeMomentum(daily, set)
	return set
}

// higherTimeframe scores the weekly trend: higher-high/higher-low counts,
// EMA(21) vs EMA(50) alignment and the weekly volume trend. With fewer than
// minWeeklyBars weekly bars the trend is forced to zero and coverage to 0.
func higherTimeframe(daily market.Series, set SignalSet) {
	weekly := daily.ResampleWeekly()
	if len(weekly) < minWeeklyBars {
		set[HigherTFTrend] = 0
		set[HigherTFCoverage] = 0
		set[WeeklyVolume] = 0
		set[WeeklyAlignment] = 0
		return
	}
	set[HigherTFCoverage] = 1

	last8 := weekly.Tail(8)
	higherHighs, higherLows := 0.0, 0.0
	for i := 1; i < len(last8); i++ {
		if last8[i].High > last8[i-1].High {
			higherHighs++
		}
		if last8[i].Low > last8[i-1].Low {
			higherLows++
		}
	}

	alignment := 0.0
	closes := weekly.Closes()
	ema21, err21 := indicators.EMA(closes, 21)
	ema50, err50 := indicators.EMA(closes, 50)
	if err21 == nil && err50 == nil {
		if ema21 > ema50 {
			alignment = 1
		} else {
			alignment = -1
		}
	}

	volumeTrend := indicators.Mean(
		indicators.PctChanges(indicators.RollingMean(weekly.Volumes(), 4)))
	weeklyVolume := indicators.Clip(volumeTrend*10, -1, 1)

	// Roughly four higher highs/lows out of seven is trendless.
	score := (higherHighs-3.5)*0.3 +
		(higherLows-3.5)*0.3 +
		alignment*0.25 +
		weeklyVolume*0.15

	set[HigherTFTrend] = indicators.Clip(score, -1, 1)
	set[WeeklyVolume] = weeklyVolume
	set[WeeklyAlignment] = alignment
}

// structure scores the daily swing pattern: the net count of higher highs
// minus lower highs (and lows), normalized over the structure window.
func structure(daily market.Series, set SignalSet) {
	w := daily.Tail(structureWindow)
	net := 0.0
	for i := 1; i < len(w); i++ {
		switch {
		case w[i].High > w[i-1].High:
			net++
		case w[i].High < w[i-1].High:
			net--
		}
		switch {
		case w[i].Low > w[i-1].Low:
			net++
		case w[i].Low < w[i-1].Low:
			net--
		}
	}
	set[MarketStructure] = indicators.Clip(net/float64(2*(len(w)-1)), -1, 1)
}

// volatility scores the ATR percentile rank, its trend and the Bollinger
// band-width squeeze.
func volatility(daily market.Series, set SignalSet) {
	atr := indicators.ATRSeries(daily, atrPeriod)
	if len(atr) == 0 {
		set[VolatilityScore] = 0
		set[VolatilityTrend] = 0
		set[BollingerSqueeze] = 0
		set[ATRPercentile] = 0.5
		return
	}

	current := atr[len(atr)-1]
	pct := indicators.PercentileRank(tail(atr, percentileWindow), current)

	volScore := 0.0
	if pct > 0.8 {
		volScore = 1
	} else if pct < 0.2 {
		volScore = -1
	}

	volTrend := indicators.Mean(indicators.PctChanges(tail(atr, 10)))

	set[VolatilityScore] = volScore
	set[VolatilityTrend] = indicators.Clip(volTrend*10, -1, 1)
	set[ATRPercentile] = pct
	set[BollingerSqueeze] = bollingerSqueeze(daily.Closes())
}

func bollingerSqueeze(closes []float64) float64 {
	middle := indicators.RollingMean(closes, bollingerPeriod)
	std := indicators.RollingStd(closes, bollingerPeriod)
	if len(middle) == 0 {
		return 0
	}

	widths := make([]float64, len(middle))
	for i := range middle {
		if middle[i] != 0 {
			widths[i] = 4 * std[i] / middle[i] // 2-sigma bands
		}
	}
	pct := indicators.PercentileRank(tail(widths, percentileWindow), widths[len(widths)-1])
	if pct < 0.2 {
		return -1
	}
	return 0
}

// riskEnvironment blends short/medium momentum, the volume ratio and price
// stability into a risk-on/risk-off score.
func riskEnvironment(daily market.Series, set SignalSet) {
	rets := daily.Returns()
	mom10 := indicators.Mean(tail(rets, 10))
	mom30 := indicators.Mean(tail(rets, 30))

	volumes := daily.Volumes()
	volumeRatio := 1.0
	if baseline, err := indicators.SMA(volumes, 20); err == nil && baseline > 0 {
		volumeRatio = indicators.Mean(tail(volumes, 5)) / baseline
	}

	stability := 0.0
	last7 := tail(daily.Closes(), 7)
	if mean7 := indicators.Mean(last7); mean7 > 0 {
		stability = 1 - indicators.StdDev(last7)/mean7
	}

	risk := indicators.Clip(mom10*100, -1, 1)*0.4 +
		indicators.Clip(mom30*50, -1, 1)*0.3 +
		indicators.Clip(volumeRatio-1, -1, 1)*0.2 +
		indicators.Clip((stability-0.95)*20, -1, 1)*0.1

	set[RiskEnvironment] = indicators.Clip(risk, -1, 1)
	set[Momentum] = indicators.Clip(mom10*100, -1, 1)
	set[Momentum10] = indicators.Clip(mom10, -1, 1)
	set[Momentum30] = indicators.Clip(mom30, -1, 1)
	set[VolumeRelative] = indicators.Clip(volumeRatio-1, -1, 1)
}

// volumeMomentum scores volume expansion, the price/volume relationship and
// RSI momentum.
func volumeMomentum(daily market.Series, set SignalSet) {
	volumes := daily.Volumes()
	closes := daily.Closes()

	volumeTrend := 0.0
	vma5 := indicators.Mean(tail(volumes, 5))
	if vma20 := indicators.Mean(tail(volumes, 20)); vma20 > 0 {
		volumeTrend = vma5/vma20 - 1
	}

	pvCorr := indicators.Correlation(
		tail(indicators.PctChanges(closes), 10),
		tail(indicators.PctChanges(volumes), 10))

	rsiMomentum, rsiTrend := 0.0, 0.0
	if rsi := indicators.RSISeries(closes, 14); len(rsi) >= 10 {
		rsiMomentum = (rsi[len(rsi)-1] - 50) / 50
		rsiTrend = (indicators.Mean(rsi[len(rsi)-5:]) -
			indicators.Mean(rsi[len(rsi)-10:len(rsi)-5])) / 10
	}

	set[VolumeTrend] = indicators.Clip(volumeTrend, -1, 1)
	set[PriceVolumeCorr] = indicators.Clip(pvCorr, -1, 1)
	set[RSIMomentum] = indicators.Clip(rsiMomentum, -1, 1)
	set[RSITrend] = indicators.Clip(rsiTrend, -1, 1)
}

func tail(values []float64, n int) []float64 {
	if n >= len(values) {
		return values
	}
	return values[len(values)-n:]
}
