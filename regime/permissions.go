package regime

// Strategy names used across the allocator.
const (
	StrategyMegaMomentum   = "MegaMomentumStrategy"
	StrategySmartLiquidity = "SmartLiquidityStrategy"
	StrategyShort          = "short_strategies"
	StrategyMeanReversion  = "mean_reversion"
	StrategyOversoldBounce = "oversold_bounce"
	StrategyVolBreakout    = "volatility_breakout"
	StrategyDefensive      = "defensive"
)

// Permission is one strategy's allotment for a regime: a base allocation
// fraction and whether the strategy may trade at all.
type Permission struct {
	Allocation float64
	Enabled    bool
}

// Permissions maps a classification to per-strategy base allocations.
// Directional tables require conviction; below 60% confidence a bull or
// bear reading falls through to the defensive table.
func Permissions(r Result) map[string]Permission {
	switch {
	case r.MarketRegime == Bull && r.Confidence > 0.6:
		return map[string]Permission{
			StrategyMegaMomentum:   {Allocation: 0.40, Enabled: true},
			StrategySmartLiquidity: {Allocation: 0.35, Enabled: true},
			StrategyShort:          {Allocation: 0, Enabled: false},
			StrategyMeanReversion:  {Allocation: 0.25, Enabled: true},
		}
	case r.MarketRegime == Bear && r.Confidence > 0.6:
		return map[string]Permission{
			StrategyShort:          {Allocation: 0.50, Enabled: true},
			StrategyOversoldBounce: {Allocation: 0.30, Enabled: true},
			StrategyMegaMomentum:   {Allocation: 0, Enabled: false},
			StrategySmartLiquidity: {Allocation: 0.20, Enabled: true},
		}
	case r.MarketRegime == Sideways:
		return map[string]Permission{
			StrategySmartLiquidity: {Allocation: 0.60, Enabled: true},
			StrategyMeanReversion:  {Allocation: 0.25, Enabled: true},
			StrategyVolBreakout:    {Allocation: 0.15, Enabled: true},
			StrategyMegaMomentum:   {Allocation: 0, Enabled: false},
		}
	default:
		return map[string]Permission{
			StrategySmartLiquidity: {Allocation: 0.40, Enabled: true},
			StrategyDefensive:      {Allocation: 0.60, Enabled: true},
			StrategyMegaMomentum:   {Allocation: 0, Enabled: false},
			StrategyShort:          {Allocation: 0, Enabled: false},
		}
	}
}
