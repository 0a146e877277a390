package portfolio

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/allocator/market"
	"github.com/rustyeddy/allocator/regime"
)

const (
	// DefaultInterval is the minimum spacing between time-driven rebalances.
	DefaultInterval = 4 * time.Hour

	confidenceShift = 0.3  // |Δ confidence| that forces a rebalance
	baseRiskBudget  = 0.02 // per-strategy risk at multiplier 1.0

	perfWindow    = 10  // returns per strategy used for the multiplier
	perfRetention = 30  // returns kept per strategy
	historyCap    = 100 // regime and allocation records kept
)

// Rebalancer owns the allocation lifecycle: it classifies (or accepts) a
// regime, decides whether the portfolio must move, and produces a new
// State when it does. Not safe for concurrent use.
type Rebalancer struct {
	classifier *regime.Classifier
	configs    map[string]StrategyConfig
	interval   time.Duration

	state         *State
	lastRebalance time.Time
	performance   map[string][]float64
	regimeHistory []regime.Result
	allocHistory  []State

	logger zerolog.Logger
	now    func() time.Time
}

// NewRebalancer returns a Rebalancer with the default strategy book and
// rebalance interval.
func NewRebalancer(c *regime.Classifier) *Rebalancer {
	return &Rebalancer{
		classifier:  c,
		configs:     DefaultStrategyConfigs(),
		interval:    DefaultInterval,
		performance: map[string][]float64{},
		logger:      log.With().Str("component", "rebalancer").Logger(),
		now:         time.Now,
	}
}

// SetInterval overrides the time-driven rebalance spacing.
func (r *Rebalancer) SetInterval(d time.Duration) { r.interval = d }

// SetConfigs replaces the strategy book.
func (r *Rebalancer) SetConfigs(configs map[string]StrategyConfig) {
	r.configs = configs
}

// Rebalance classifies the given market data and applies the result.
func (r *Rebalancer) Rebalance(data map[string]market.Series) State {
	return r.Apply(r.classifier.Analyze(data))
}

// Apply runs one rebalancing decision against a classification. When no
// trigger fires it refreshes the regime label and confidence of the standing
// state and leaves everything else untouched.
func (r *Rebalancer) Apply(res regime.Result) State {
	r.recordRegime(res)

	reason, triggered := r.shouldRebalance(res)
	if !triggered {
		r.state.Regime = res.MarketRegime
		r.state.Confidence = res.Confidence
		out := *r.state
		out.Rebalanced = false
		out.Reason = "no trigger"
		return out
	}

	state := r.allocate(res)
	state.Rebalanced = true
	state.Reason = reason

	r.state = &state
	r.lastRebalance = state.Timestamp
	r.recordAllocation(state)

	r.logger.Info().
		Str("regime", string(res.MarketRegime)).
		Float64("confidence", res.Confidence).
		Float64("invested", state.Invested()).
		Float64("cash_reserve", state.CashReserve).
		Str("reason", reason).
		Msg("portfolio rebalanced")
	return state
}

// State returns the standing portfolio state, or nil before the first
// rebalance.
func (r *Rebalancer) State() *State { return r.state }

// RecordPerformance appends a realized return for one strategy.
func (r *Rebalancer) RecordPerformance(strategy string, ret float64) {
	hist := append(r.performance[strategy], ret)
	if len(hist) > perfRetention {
		hist = hist[len(hist)-perfRetention:]
	}
	r.performance[strategy] = hist
}

func (r *Rebalancer) shouldRebalance(res regime.Result) (string, bool) {
	if r.state == nil {
		return "initial allocation", true
	}
	if res.MarketRegime != r.state.Regime {
		return fmt.Sprintf("regime change %s -> %s", r.state.Regime, res.MarketRegime), true
	}
	if math.Abs(res.Confidence-r.state.Confidence) > confidenceShift {
		return "confidence shift", true
	}
	if r.now().Sub(r.lastRebalance) > r.interval {
		return "interval elapsed", true
	}
	return "", false
}

// allocate sizes every permitted strategy: base permission x confidence x
// performance x volatility, clamped to the strategy's bounds, then scaled
// down for over-commitment and the cash reserve.
func (r *Rebalancer) allocate(res regime.Result) State {
	perms := regime.Permissions(res)

	allocs := make(map[string]StrategyAllocation, len(perms))
	total := 0.0
	for name, perm := range perms {
		cfg, ok := r.configs[name]
		if !ok {
			cfg = defaultConfig(name)
		}

		alloc := StrategyAllocation{Name: name, Enabled: perm.Enabled}
		if perm.Enabled {
			raw := perm.Allocation *
				res.Confidence *
				r.performanceMultiplier(name) *
				volatilityMultiplier(name, res.Volatility)
			alloc.Allocation = clamp(raw, cfg.MinAllocation, cfg.MaxAllocation)
		}
		allocs[name] = alloc
		total += alloc.Allocation
	}

	// Never commit more than the whole book.
	if total > 1 {
		for name, a := range allocs {
			a.Allocation /= total
			allocs[name] = a
		}
	}

	// Low conviction holds more cash.
	reserve := 0.05 + (1-res.Confidence)*0.10
	for name, a := range allocs {
		a.Allocation *= 1 - reserve
		cfg, ok := r.configs[name]
		if !ok {
			cfg = defaultConfig(name)
		}
		a.RiskBudget = a.Allocation * cfg.RiskMultiplier * baseRiskBudget
		allocs[name] = a
	}

	return State{
		Timestamp:   r.now(),
		Regime:      res.MarketRegime,
		Confidence:  res.Confidence,
		Volatility:  res.Volatility,
		Allocations: allocs,
		CashReserve: reserve,
	}
}

// performanceMultiplier grades a strategy by its mean recent return.
// No recorded history grades as neutral.
func (r *Rebalancer) performanceMultiplier(strategy string) float64 {
	hist := r.performance[strategy]
	if len(hist) == 0 {
		return 1.0
	}
	if len(hist) > perfWindow {
		hist = hist[len(hist)-perfWindow:]
	}

	sum := 0.0
	for _, v := range hist {
		sum += v
	}
	switch mean := sum / float64(len(hist)); {
	case mean > 0.05:
		return 1.3
	case mean > 0.02:
		return 1.1
	case mean > -0.02:
		return 1.0
	case mean > -0.05:
		return 0.8
	default:
		return 0.5
	}
}

// volatilityMultiplier adjusts a strategy for the volatility regime.
// Explosive markets favor momentum and punish everything else; quiet
// markets favor liquidity provision and mean reversion.
func volatilityMultiplier(strategy string, vol regime.VolatilityRegime) float64 {
	switch vol {
	case regime.VolExplosive:
		if strings.Contains(strategy, "Momentum") {
			return 1.2
		}
		return 0.7
	case regime.VolHigh:
		return 0.9
	case regime.VolLow:
		if strings.Contains(strategy, "Liquidity") ||
			strings.Contains(strategy, "mean_reversion") {
			return 1.1
		}
		return 1.0
	default:
		return 1.0
	}
}

func (r *Rebalancer) recordRegime(res regime.Result) {
	r.regimeHistory = append(r.regimeHistory, res)
	if len(r.regimeHistory) > historyCap {
		r.regimeHistory = r.regimeHistory[len(r.regimeHistory)-historyCap:]
	}
}

func (r *Rebalancer) recordAllocation(s State) {
	r.allocHistory = append(r.allocHistory, s)
	if len(r.allocHistory) > historyCap {
		r.allocHistory = r.allocHistory[len(r.allocHistory)-historyCap:]
	}
}

// RegimeHistory returns the retained classification records, oldest first.
func (r *Rebalancer) RegimeHistory() []regime.Result { return r.regimeHistory }

// AllocationHistory returns the retained rebalance records, oldest first.
func (r *Rebalancer) AllocationHistory() []State { return r.allocHistory }

// Summary renders the standing allocations as a readable report.
func (r *Rebalancer) Summary() string {
	if r.state == nil {
		return "portfolio: no allocation yet\n"
	}

	names := make([]string, 0, len(r.state.Allocations))
	for name := range r.state.Allocations {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintln(&b, "---- Portfolio ----")
	fmt.Fprintf(&b, "  Regime:      %s (%.0f%% confidence)\n",
		r.state.Regime, r.state.Confidence*100)
	for _, name := range names {
		a := r.state.Allocations[name]
		status := "enabled"
		if !a.Enabled {
			status = "disabled"
		}
		fmt.Fprintf(&b, "  %-24s %6.2f%%  risk %5.2f%%  %s\n",
			name, a.Allocation*100, a.RiskBudget*100, status)
	}
	fmt.Fprintf(&b, "  Cash reserve: %.2f%%\n", r.state.CashReserve*100)
	fmt.Fprintf(&b, "  Total risk:   %.2f%%\n", r.state.TotalRisk()*100)
	return b.String()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
