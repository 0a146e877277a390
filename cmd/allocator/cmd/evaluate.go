package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/allocator/config"
	"github.com/rustyeddy/allocator/risk"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a trade proposal against the risk limits",
	Long: `Size and gate a single trade proposal against the portfolio risk limits.

Example:
  allocator evaluate --symbol BTC/USDT --side long \
    --entry 50000 --stop 48500 --target 53000 \
    --confidence 0.85 --quality 0.9`,
	RunE: runEvaluate,
}

var (
	evalConfigPath string
	evalSymbol     string
	evalSide       string
	evalEntry      float64
	evalStop       float64
	evalTarget     float64
	evalConfidence float64
	evalQuality    float64
	evalVolatility float64
	evalBalance    float64
)

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evalConfigPath, "config", "f", "", "path to config file with risk limits")
	evaluateCmd.Flags().StringVar(&evalSymbol, "symbol", "BTC/USDT", "trading pair")
	evaluateCmd.Flags().StringVar(&evalSide, "side", "long", "trade direction (long or short)")
	evaluateCmd.Flags().Float64Var(&evalEntry, "entry", 0, "entry price (required)")
	evaluateCmd.Flags().Float64Var(&evalStop, "stop", 0, "stop-loss price (required)")
	evaluateCmd.Flags().Float64Var(&evalTarget, "target", 0, "target price (optional)")
	evaluateCmd.Flags().Float64Var(&evalConfidence, "confidence", 0.5, "regime confidence [0,1]")
	evaluateCmd.Flags().Float64Var(&evalQuality, "quality", 0.5, "setup quality [0,1]")
	evaluateCmd.Flags().Float64Var(&evalVolatility, "volatility", 0.03, "asset return volatility")
	evaluateCmd.Flags().Float64Var(&evalBalance, "balance", 100000, "account balance")
	evaluateCmd.MarkFlagRequired("entry")
	evaluateCmd.MarkFlagRequired("stop")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	limits := risk.DefaultLimits()
	balance := evalBalance
	if evalConfigPath != "" {
		cfg, err := config.LoadFromFile(evalConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		limits = cfg.Risk.Limits()
		balance = cfg.Account.Balance
	}

	side := risk.Long
	if evalSide == "short" {
		side = risk.Short
	}

	evaluator := risk.NewEvaluator(balance, limits)
	a := evaluator.Evaluate(risk.Proposal{
		Symbol:      evalSymbol,
		Side:        side,
		EntryPrice:  evalEntry,
		StopLoss:    evalStop,
		TargetPrice: evalTarget,
		Confidence:  evalConfidence,
		Quality:     evalQuality,
		Volatility:  evalVolatility,
	})

	if !a.Approved {
		fmt.Printf("✗ Rejected: %s\n", a.Reason)
		return nil
	}

	fmt.Println("✓ Approved")
	fmt.Printf("  Position size: %.6f %s\n", a.PositionSize, evalSymbol)
	fmt.Printf("  Risk:          %.2f (%.2f%% of equity)\n", a.RiskAmount, a.RiskPercent*100)
	if a.RiskReward > 0 {
		fmt.Printf("  Risk/reward:   %.2f\n", a.RiskReward)
	}
	fmt.Printf("  Heat:          %s\n", a.Heat)
	for _, w := range a.Warnings {
		fmt.Printf("  ! %s\n", w)
	}
	return nil
}
