// Package regime classifies market conditions from extracted signals into
// discrete regime labels with a confidence score, and maps regimes to
// per-strategy permissions.
package regime

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/allocator/signals"
)

// MarketRegime is the coarse directional label.
type MarketRegime string

const (
	Bull         MarketRegime = "bull"
	Bear         MarketRegime = "bear"
	Sideways     MarketRegime = "sideways"
	Transitional MarketRegime = "transitional"
)

// VolatilityRegime buckets the current volatility level.
type VolatilityRegime string

const (
	VolLow       VolatilityRegime = "low"
	VolNormal    VolatilityRegime = "normal"
	VolHigh      VolatilityRegime = "high"
	VolExplosive VolatilityRegime = "explosive"
)

// RiskEnvironment labels the broad risk appetite.
type RiskEnvironment string

const (
	RiskOn      RiskEnvironment = "risk_on"
	RiskOff     RiskEnvironment = "risk_off"
	RiskNeutral RiskEnvironment = "neutral"
)

// FundamentalHealth is a coarse market-health label derived from technical
// proxies (trend, price/volume agreement, medium momentum).
type FundamentalHealth string

const (
	Healthy       FundamentalHealth = "healthy"
	Warning       FundamentalHealth = "warning"
	Deteriorating FundamentalHealth = "deteriorating"
)

// Result is the complete classification for one analysis call.
type Result struct {
	MarketRegime      MarketRegime
	Volatility        VolatilityRegime
	RiskEnvironment   RiskEnvironment
	FundamentalHealth FundamentalHealth
	Confidence        float64 // [0,1]
	DurationDays      int     // consecutive calls with an unchanged label
	Signals           signals.SignalSet
	Timestamp         time.Time
}

// Neutral is the fail-safe result returned when the classifier cannot run:
// sideways/normal/neutral/warning at low confidence.
func Neutral(now time.Time) Result {
	return Result{
		MarketRegime:      Sideways,
		Volatility:        VolNormal,
		RiskEnvironment:   RiskNeutral,
		FundamentalHealth: Warning,
		Confidence:        0.3,
		DurationDays:      1,
		Signals:           signals.Neutral(),
		Timestamp:         now,
	}
}

// Summary renders a human-readable report of the classification.
func (r Result) Summary() string {
	var b strings.Builder
	fmt.Fprintln(&b, "---- Market Regime ----")
	fmt.Fprintf(&b, "  Regime:      %s (%d days)\n", r.MarketRegime, r.DurationDays)
	fmt.Fprintf(&b, "  Volatility:  %s\n", r.Volatility)
	fmt.Fprintf(&b, "  Risk:        %s\n", r.RiskEnvironment)
	fmt.Fprintf(&b, "  Health:      %s\n", r.FundamentalHealth)
	fmt.Fprintf(&b, "  Confidence:  %.0f%%\n", r.Confidence*100)
	fmt.Fprintf(&b, "  Trend:       %+.2f  Structure: %+.2f  Momentum: %+.2f\n",
		r.Signals.Get(signals.HigherTFTrend),
		r.Signals.Get(signals.MarketStructure),
		r.Signals.Get(signals.Momentum))
	return b.String()
}
