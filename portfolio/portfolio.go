// Package portfolio sizes strategy allocations from regime classifications,
// scaling the base permission table by confidence, recent performance and
// the volatility regime, then reserving cash off the top.
package portfolio

import (
	"time"

	"github.com/rustyeddy/allocator/regime"
)

// StrategyConfig bounds one strategy's allocation and scales its risk
// budget relative to the portfolio default.
type StrategyConfig struct {
	Name             string                `yaml:"name"`
	MaxAllocation    float64               `yaml:"max_allocation"`
	MinAllocation    float64               `yaml:"min_allocation"`
	RiskMultiplier   float64               `yaml:"risk_multiplier"`
	PreferredRegimes []regime.MarketRegime `yaml:"preferred_regimes"`
}

// DefaultStrategyConfigs returns the built-in strategy book. Strategies
// absent from the book get defaultConfig bounds.
func DefaultStrategyConfigs() map[string]StrategyConfig {
	return map[string]StrategyConfig{
		regime.StrategyMegaMomentum: {
			Name:             regime.StrategyMegaMomentum,
			MaxAllocation:    0.45,
			RiskMultiplier:   1.2,
			PreferredRegimes: []regime.MarketRegime{regime.Bull, regime.Transitional},
		},
		regime.StrategySmartLiquidity: {
			Name:             regime.StrategySmartLiquidity,
			MaxAllocation:    0.50,
			RiskMultiplier:   0.8,
			PreferredRegimes: []regime.MarketRegime{regime.Bull, regime.Bear, regime.Sideways},
		},
		regime.StrategyShort: {
			Name:             regime.StrategyShort,
			MaxAllocation:    0.60,
			RiskMultiplier:   1.0,
			PreferredRegimes: []regime.MarketRegime{regime.Bear},
		},
		regime.StrategyMeanReversion: {
			Name:             regime.StrategyMeanReversion,
			MaxAllocation:    0.40,
			RiskMultiplier:   0.9,
			PreferredRegimes: []regime.MarketRegime{regime.Sideways, regime.Transitional},
		},
	}
}

func defaultConfig(name string) StrategyConfig {
	return StrategyConfig{Name: name, MaxAllocation: 1.0, RiskMultiplier: 1.0}
}

// StrategyAllocation is one strategy's share of the portfolio after a
// rebalance. RiskBudget is the fraction of equity the strategy may put at
// risk across its open trades.
type StrategyAllocation struct {
	Name       string
	Allocation float64
	Enabled    bool
	RiskBudget float64
}

// State is the portfolio after one rebalancing decision.
type State struct {
	Timestamp   time.Time
	Regime      regime.MarketRegime
	Confidence  float64
	Volatility  regime.VolatilityRegime
	Allocations map[string]StrategyAllocation
	CashReserve float64
	Rebalanced  bool
	Reason      string
}

// Invested returns the sum of all strategy allocations.
func (s State) Invested() float64 {
	total := 0.0
	for _, a := range s.Allocations {
		total += a.Allocation
	}
	return total
}

// TotalRisk returns the aggregate risk budget across all strategies. Nothing
// caps this sum here; trade-level limits live in the risk evaluator.
func (s State) TotalRisk() float64 {
	total := 0.0
	for _, a := range s.Allocations {
		total += a.RiskBudget
	}
	return total
}
