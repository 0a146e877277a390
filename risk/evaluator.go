// Package risk evaluates trade proposals against portfolio-level limits:
// dynamic position sizing, correlation-aware exposure checks, drawdown and
// losing-streak circuit breakers, and a portfolio heat gauge.
package risk

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/allocator/indicators"
	"github.com/rustyeddy/allocator/pkg/id"
)

// Side is the direction of a trade.
type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

// HeatLevel grades how much of the portfolio risk budget is committed.
type HeatLevel string

const (
	HeatLow      HeatLevel = "LOW"
	HeatMedium   HeatLevel = "MEDIUM"
	HeatHigh     HeatLevel = "HIGH"
	HeatCritical HeatLevel = "CRITICAL"
)

// Limits are the hard portfolio risk limits, all as fractions of equity.
type Limits struct {
	MaxPortfolioRisk  float64 `yaml:"max_portfolio_risk"`
	MaxSingleTrade    float64 `yaml:"max_single_trade"`
	MaxCorrelatedRisk float64 `yaml:"max_correlated_risk"`
	DailyLossLimit    float64 `yaml:"daily_loss_limit"`
	WeeklyLossLimit   float64 `yaml:"weekly_loss_limit"`
	MinRiskReward     float64 `yaml:"min_risk_reward"`
}

// DefaultLimits returns the standard limit set.
func DefaultLimits() Limits {
	return Limits{
		MaxPortfolioRisk:  0.06,
		MaxSingleTrade:    0.025,
		MaxCorrelatedRisk: 0.04,
		DailyLossLimit:    0.02,
		WeeklyLossLimit:   0.08,
		MinRiskReward:     2.0,
	}
}

// Proposal is a trade submitted for risk evaluation. Confidence comes from
// the regime classifier, Quality from the proposing strategy's setup score,
// Volatility is the asset's recent return volatility.
type Proposal struct {
	Symbol      string
	Strategy    string
	Side        Side
	EntryPrice  float64
	StopLoss    float64
	TargetPrice float64
	Confidence  float64 // [0,1]
	Quality     float64 // [0,1]
	Volatility  float64
}

// Assessment is the outcome of evaluating one proposal.
type Assessment struct {
	Approved      bool
	Reason        string
	PositionSize  float64 // units of the asset
	RiskAmount    float64 // account currency at risk
	RiskPercent   float64 // fraction of equity at risk
	RiskReward    float64
	SizeReduction float64 // 1.0 unless a soft control shrinks the trade
	Heat          HeatLevel
	Warnings      []string
}

// Position is an open trade tracked by the evaluator.
type Position struct {
	ID          string
	Symbol      string
	Strategy    string
	Side        Side
	Size        float64
	EntryPrice  float64
	StopLoss    float64
	RiskPercent float64
	OpenedAt    time.Time
}

type closedTrade struct {
	pnl      float64
	rMult    float64
	closedAt time.Time
}

const (
	minTradeRisk   = 0.005
	maxLossStreak  = 5
	minQuality     = 0.3
	minConfidence  = 0.4
	dailyRetention = 30 // days of realized PnL kept
)

// Evaluator gates trade proposals and tracks open positions, realized PnL
// and drawdown. Not safe for concurrent use.
type Evaluator struct {
	limits       Limits
	correlations CorrelationTable

	balance     float64
	peakBalance float64
	drawdown    float64

	positions   map[string]Position
	closed      []closedTrade
	lossStreak  int
	dailyPnL    map[string]float64

	logger zerolog.Logger
	now    func() time.Time
}

// NewEvaluator returns an Evaluator over the given starting balance.
func NewEvaluator(balance float64, limits Limits) *Evaluator {
	return &Evaluator{
		limits:       limits,
		correlations: DefaultCorrelations(),
		balance:      balance,
		peakBalance:  balance,
		positions:    map[string]Position{},
		dailyPnL:     map[string]float64{},
		logger:       log.With().Str("component", "risk").Logger(),
		now:          time.Now,
	}
}

// Evaluate sizes and gates a proposal. A rejected assessment carries zero
// size and the reason for the first failing check. Evaluation never mutates
// the evaluator, so re-evaluating an identical proposal repeats the verdict.
func (e *Evaluator) Evaluate(p Proposal) Assessment {
	if p.EntryPrice <= 0 || p.StopLoss <= 0 || p.EntryPrice == p.StopLoss {
		return e.reject(p, "invalid entry or stop price")
	}

	current := e.PortfolioRisk()
	riskPct := e.tradeRisk(p, current)
	stopDistance := math.Abs(p.EntryPrice - p.StopLoss)

	a := Assessment{
		PositionSize:  e.balance * riskPct / stopDistance,
		RiskAmount:    e.balance * riskPct,
		RiskPercent:   riskPct,
		SizeReduction: 1.0,
		Heat:          e.Heat(),
	}
	if p.TargetPrice > 0 {
		a.RiskReward = math.Abs(p.TargetPrice-p.EntryPrice) / stopDistance
	}

	if current+riskPct > e.limits.MaxPortfolioRisk {
		return e.reject(p, fmt.Sprintf("portfolio risk %.1f%% would exceed %.1f%% limit",
			(current+riskPct)*100, e.limits.MaxPortfolioRisk*100))
	}
	if riskPct > e.limits.MaxSingleTrade {
		return e.reject(p, "single trade risk above limit")
	}
	if corr := e.correlatedRisk(p.Symbol, p.Side); corr+riskPct > e.limits.MaxCorrelatedRisk {
		return e.reject(p, fmt.Sprintf("correlated exposure %.1f%% would exceed %.1f%% limit",
			(corr+riskPct)*100, e.limits.MaxCorrelatedRisk*100))
	}
	if e.drawdown > e.limits.DailyLossLimit {
		return e.reject(p, fmt.Sprintf("drawdown %.1f%% above daily limit", e.drawdown*100))
	}
	if e.lossStreak >= maxLossStreak {
		return e.reject(p, fmt.Sprintf("%d consecutive losses, trading paused", e.lossStreak))
	}
	if p.Quality < minQuality {
		return e.reject(p, "setup quality below threshold")
	}
	if p.Confidence < minConfidence {
		return e.reject(p, "regime confidence below threshold")
	}
	if p.TargetPrice > 0 && a.RiskReward < e.limits.MinRiskReward {
		return e.reject(p, fmt.Sprintf("risk/reward %.2f below %.1f minimum",
			a.RiskReward, e.limits.MinRiskReward))
	}

	if a.Heat == HeatHigh {
		a.SizeReduction = 0.8
		a.PositionSize *= 0.8
		a.RiskAmount *= 0.8
		a.RiskPercent *= 0.8
		a.Warnings = append(a.Warnings, "portfolio heat high, size reduced")
	}
	if corr := e.correlatedRisk(p.Symbol, p.Side); corr > 0.02 {
		a.Warnings = append(a.Warnings,
			fmt.Sprintf("correlated exposure already at %.1f%%", corr*100))
	}

	a.Approved = true
	e.logger.Debug().
		Str("symbol", p.Symbol).
		Float64("risk_pct", a.RiskPercent).
		Float64("size", a.PositionSize).
		Msg("trade approved")
	return a
}

func (e *Evaluator) reject(p Proposal, reason string) Assessment {
	e.logger.Debug().Str("symbol", p.Symbol).Str("reason", reason).Msg("trade rejected")
	return Assessment{Reason: reason, SizeReduction: 1.0, Heat: e.Heat()}
}

// tradeRisk sizes the per-trade risk fraction: the single-trade limit scaled
// by conviction, setup quality, remaining risk headroom, asset volatility and
// recent performance, clipped to [minTradeRisk, the single-trade limit].
func (e *Evaluator) tradeRisk(p Proposal, currentRisk float64) float64 {
	confFactor := 0.5 + p.Confidence
	qualFactor := 0.7 + 0.6*p.Quality

	headroom := 1 - currentRisk/e.limits.MaxPortfolioRisk
	if headroom < 0.3 {
		headroom = 0.3
	}

	volFactor := 0.03 / math.Max(p.Volatility, 0.01)
	if volFactor > 1 {
		volFactor = 1
	}

	risk := e.limits.MaxSingleTrade * confFactor * qualFactor * headroom * volFactor *
		e.performanceMultiplier()
	return indicators.Clip(risk, minTradeRisk, e.limits.MaxSingleTrade)
}

// performanceMultiplier grades recent closed trades: average R-multiple and
// win rate widen or shrink sizing, losing streaks shrink it further.
func (e *Evaluator) performanceMultiplier() float64 {
	if len(e.closed) < 5 {
		return 1.0
	}

	recent := e.closed
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	var rSum, wins float64
	for _, c := range recent {
		rSum += c.rMult
		if c.pnl > 0 {
			wins++
		}
	}
	avgR := rSum / float64(len(recent))
	winRate := wins / float64(len(recent))

	score := avgR*0.6 + (winRate-0.5)*0.4
	mult := 1 + indicators.Clip(score, -0.3, 0.3)

	if e.lossStreak >= 3 {
		mult *= 0.7
	} else if e.lossStreak >= 2 {
		mult *= 0.85
	}
	return mult
}

// OpenPosition books an approved trade and returns the tracked position.
func (e *Evaluator) OpenPosition(p Proposal, a Assessment) Position {
	pos := Position{
		ID:          id.New(),
		Symbol:      p.Symbol,
		Strategy:    p.Strategy,
		Side:        p.Side,
		Size:        a.PositionSize,
		EntryPrice:  p.EntryPrice,
		StopLoss:    p.StopLoss,
		RiskPercent: a.RiskPercent,
		OpenedAt:    e.now(),
	}
	e.positions[pos.ID] = pos
	return pos
}

// ClosePosition settles an open position with its realized PnL, updating
// balance, drawdown, the losing streak and the daily PnL ledger.
func (e *Evaluator) ClosePosition(posID string, pnl float64) error {
	pos, ok := e.positions[posID]
	if !ok {
		return fmt.Errorf("unknown position %q", posID)
	}
	delete(e.positions, posID)

	riskAmount := pos.Size * math.Abs(pos.EntryPrice-pos.StopLoss)
	rMult := 0.0
	if riskAmount > 0 {
		rMult = pnl / riskAmount
	}
	e.closed = append(e.closed, closedTrade{pnl: pnl, rMult: rMult, closedAt: e.now()})

	if pnl < 0 {
		e.lossStreak++
	} else {
		e.lossStreak = 0
	}

	e.balance += pnl
	if e.balance > e.peakBalance {
		e.peakBalance = e.balance
		e.drawdown = 0
	} else if e.peakBalance > 0 {
		e.drawdown = (e.peakBalance - e.balance) / e.peakBalance
	}

	day := e.now().UTC().Format("2006-01-02")
	e.dailyPnL[day] += pnl
	e.pruneDailyPnL()
	return nil
}

func (e *Evaluator) pruneDailyPnL() {
	cutoff := e.now().UTC().AddDate(0, 0, -dailyRetention).Format("2006-01-02")
	for day := range e.dailyPnL {
		if day < cutoff {
			delete(e.dailyPnL, day)
		}
	}
}

// PortfolioRisk sums the risk fractions of all open positions.
func (e *Evaluator) PortfolioRisk() float64 {
	total := 0.0
	for _, pos := range e.positions {
		total += pos.RiskPercent
	}
	return total
}

// correlatedRisk sums open-position risk weighted by correlation with the
// candidate symbol. Opposite-side exposure hedges at half weight.
func (e *Evaluator) correlatedRisk(symbol string, side Side) float64 {
	total := 0.0
	for _, pos := range e.positions {
		corr := e.correlations.Lookup(symbol, pos.Symbol)
		dir := 1.0
		if pos.Side != side {
			dir = -0.5
		}
		total += math.Abs(corr * dir * pos.RiskPercent)
	}
	return total
}

// Heat grades committed portfolio risk against the limit.
func (e *Evaluator) Heat() HeatLevel {
	risk := e.PortfolioRisk()
	limit := e.limits.MaxPortfolioRisk
	switch {
	case risk > limit:
		return HeatCritical
	case risk > 0.8*limit:
		return HeatHigh
	case risk > 0.6*limit:
		return HeatMedium
	default:
		return HeatLow
	}
}

// Balance returns the current account balance.
func (e *Evaluator) Balance() float64 { return e.balance }

// Drawdown returns the current fraction below the balance peak.
func (e *Evaluator) Drawdown() float64 { return e.drawdown }

// LossStreak returns the current run of consecutive losing trades.
func (e *Evaluator) LossStreak() int { return e.lossStreak }

// OpenPositions returns the tracked positions sorted by ID.
func (e *Evaluator) OpenPositions() []Position {
	out := make([]Position, 0, len(e.positions))
	for _, pos := range e.positions {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Summary renders the portfolio risk picture as a readable report.
func (e *Evaluator) Summary() string {
	var b strings.Builder
	fmt.Fprintln(&b, "---- Risk ----")
	fmt.Fprintf(&b, "  Balance:     %.2f (drawdown %.2f%%)\n", e.balance, e.drawdown*100)
	fmt.Fprintf(&b, "  Open risk:   %.2f%% of %.2f%% (%s)\n",
		e.PortfolioRisk()*100, e.limits.MaxPortfolioRisk*100, e.Heat())
	fmt.Fprintf(&b, "  Positions:   %d\n", len(e.positions))
	fmt.Fprintf(&b, "  Loss streak: %d\n", e.lossStreak)
	return b.String()
}
