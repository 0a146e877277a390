package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/allocator/regime"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify the current market regime",
	Long: `Classify the market regime from daily OHLCV data and print the result
with the per-strategy permission table.

Data comes from CSV files (time,open,high,low,close,volume per row) or a
built-in synthetic scenario when no files are given.

Examples:
  allocator analyze --csv BTC=btc_daily.csv --csv ETH=eth_daily.csv
  allocator analyze --synthetic bear`,
	RunE: runAnalyze,
}

var (
	analyzeCSVs      []string
	analyzeSynthetic string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringArrayVar(&analyzeCSVs, "csv", nil, "SYMBOL=path pairs of daily OHLCV files")
	analyzeCmd.Flags().StringVar(&analyzeSynthetic, "synthetic", "bull", "synthetic scenario when no CSV is given (bull, bear, sideways)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	data, err := loadSeries(analyzeCSVs, analyzeSynthetic)
	if err != nil {
		return err
	}

	classifier := regime.NewClassifier()
	res := classifier.Analyze(data)

	fmt.Print(res.Summary())
	fmt.Println()

	fmt.Println("Strategy permissions:")
	perms := regime.Permissions(res)
	for _, name := range sortedKeys(perms) {
		p := perms[name]
		status := "enabled"
		if !p.Enabled {
			status = "disabled"
		}
		fmt.Printf("  %-24s base %5.1f%%  %s\n", name, p.Allocation*100, status)
	}
	return nil
}
