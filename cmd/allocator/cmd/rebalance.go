package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/allocator/config"
	"github.com/rustyeddy/allocator/journal"
	"github.com/rustyeddy/allocator/pkg/id"
	"github.com/rustyeddy/allocator/portfolio"
	"github.com/rustyeddy/allocator/regime"
)

var rebalanceCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "Compute strategy allocations for the current regime",
	Long: `Classify the market regime and compute the strategy allocation that
follows from it, optionally journaling the decision.

Examples:
  allocator rebalance --csv BTC=btc_daily.csv
  allocator rebalance --synthetic bear --config allocator.yaml`,
	RunE: runRebalance,
}

var (
	rebalanceCSVs       []string
	rebalanceSynthetic  string
	rebalanceConfigPath string
)

func init() {
	rootCmd.AddCommand(rebalanceCmd)

	rebalanceCmd.Flags().StringArrayVar(&rebalanceCSVs, "csv", nil, "SYMBOL=path pairs of daily OHLCV files")
	rebalanceCmd.Flags().StringVar(&rebalanceSynthetic, "synthetic", "bull", "synthetic scenario when no CSV is given (bull, bear, sideways)")
	rebalanceCmd.Flags().StringVarP(&rebalanceConfigPath, "config", "f", "", "path to config file for journaling and interval")
}

func runRebalance(cmd *cobra.Command, args []string) error {
	data, err := loadSeries(rebalanceCSVs, rebalanceSynthetic)
	if err != nil {
		return err
	}

	rebalancer := portfolio.NewRebalancer(regime.NewClassifier())

	var j journal.Journal
	if rebalanceConfigPath != "" {
		cfg, err := config.LoadFromFile(rebalanceConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if interval, _ := cfg.Portfolio.ParseInterval(); interval > 0 {
			rebalancer.SetInterval(interval)
		}
		j, err = openJournal(cfg.Journal)
		if err != nil {
			return fmt.Errorf("create journal: %w", err)
		}
		defer j.Close()
	}

	state := rebalancer.Rebalance(data)
	fmt.Print(rebalancer.Summary())

	if j != nil && state.Rebalanced {
		if err := j.RecordRebalance(rebalanceRecord(state)); err != nil {
			return fmt.Errorf("journal rebalance: %w", err)
		}
		fmt.Println("\n✓ Decision journaled.")
	}
	return nil
}

func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	if cfg.Type == "csv" {
		return journal.NewCSV(cfg.TradesFile, cfg.AllocFile)
	}
	return journal.NewSQLite(cfg.DBPath)
}

func rebalanceRecord(state portfolio.State) journal.RebalanceRecord {
	allocs := make(map[string]float64, len(state.Allocations))
	for name, a := range state.Allocations {
		allocs[name] = a.Allocation
	}
	return journal.RebalanceRecord{
		RecordID:    id.New(),
		Time:        state.Timestamp,
		Regime:      string(state.Regime),
		Confidence:  state.Confidence,
		Volatility:  string(state.Volatility),
		CashReserve: state.CashReserve,
		Reason:      state.Reason,
		Allocations: allocs,
	}
}
