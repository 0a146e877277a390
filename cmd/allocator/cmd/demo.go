package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/allocator/journal"
	"github.com/rustyeddy/allocator/pkg/id"
	"github.com/rustyeddy/allocator/portfolio"
	"github.com/rustyeddy/allocator/regime"
	"github.com/rustyeddy/allocator/risk"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the full pipeline on synthetic data",
	Long: `Run the complete regime-to-allocation pipeline on synthetic market data:

  1. Classify the market regime from daily candles
  2. Map the regime to strategy permissions
  3. Rebalance the strategy portfolio
  4. Evaluate a trade proposal against the risk limits
  5. Journal the decisions to CSV

Examples:
  allocator demo
  allocator demo --synthetic bear`,
	RunE: runDemo,
}

var demoSynthetic string

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVar(&demoSynthetic, "synthetic", "bull", "synthetic scenario (bull, bear, sideways)")
}

func runDemo(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Allocation Pipeline Demo ===")
	fmt.Println()

	data, err := loadSeries(nil, demoSynthetic)
	if err != nil {
		return err
	}

	j, err := journal.NewCSV("./demo-trades.csv", "./demo-allocations.csv")
	if err != nil {
		return err
	}
	defer j.Close()

	classifier := regime.NewClassifier()
	rebalancer := portfolio.NewRebalancer(classifier)

	state := rebalancer.Rebalance(data)
	fmt.Print(rebalancer.Summary())
	fmt.Println()

	if err := j.RecordRebalance(rebalanceRecord(state)); err != nil {
		return err
	}

	evaluator := risk.NewEvaluator(100_000, risk.DefaultLimits())
	proposal := risk.Proposal{
		Symbol:      "BTC/USDT",
		Strategy:    regime.StrategyMegaMomentum,
		Side:        risk.Long,
		EntryPrice:  50000,
		StopLoss:    48500,
		TargetPrice: 53000,
		Confidence:  state.Confidence,
		Quality:     0.8,
		Volatility:  0.03,
	}
	if state.Regime == regime.Bear {
		proposal.Strategy = regime.StrategyShort
		proposal.Side = risk.Short
		proposal.StopLoss = 51500
		proposal.TargetPrice = 47000
	}

	fmt.Printf("Proposing %s %s (entry %.0f, stop %.0f):\n",
		proposal.Side, proposal.Symbol, proposal.EntryPrice, proposal.StopLoss)

	a := evaluator.Evaluate(proposal)
	if !a.Approved {
		fmt.Printf("  ✗ Rejected: %s\n", a.Reason)
		return nil
	}
	fmt.Printf("  ✓ Approved: size %.4f, risk %.2f (%.2f%%), heat %s\n",
		a.PositionSize, a.RiskAmount, a.RiskPercent*100, a.Heat)

	pos := evaluator.OpenPosition(proposal, a)
	fmt.Printf("  Opened position %s\n", pos.ID)

	// Settle at the target for the demo.
	pnl := a.PositionSize * (proposal.TargetPrice - proposal.EntryPrice)
	if proposal.Side == risk.Short {
		pnl = -pnl
	}
	if err := evaluator.ClosePosition(pos.ID, pnl); err != nil {
		return err
	}
	fmt.Printf("  Closed at target: PnL %.2f, balance %.2f\n", pnl, evaluator.Balance())

	err = j.RecordTrade(journal.TradeRecord{
		TradeID:     id.New(),
		Symbol:      pos.Symbol,
		Strategy:    pos.Strategy,
		Side:        string(pos.Side),
		Size:        pos.Size,
		EntryPrice:  pos.EntryPrice,
		ExitPrice:   proposal.TargetPrice,
		OpenTime:    pos.OpenedAt,
		CloseTime:   pos.OpenedAt,
		RealizedPL:  pnl,
		RiskPercent: pos.RiskPercent,
		Reason:      "target",
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(evaluator.Summary())
	fmt.Println("\n✓ Check demo-trades.csv and demo-allocations.csv for records.")
	return nil
}
