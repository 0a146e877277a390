package cmd

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "allocator",
	Short: "A regime-driven portfolio allocation engine for crypto markets",
	Long: `Allocator classifies crypto market regimes and turns them into strategy
allocations and trade-level risk decisions.

It provides tools for:
  - Classifying market regimes from daily OHLCV data
  - Mapping regimes to per-strategy allocation permissions
  - Rebalancing a strategy portfolio with confidence-scaled sizing
  - Evaluating trade proposals against portfolio risk limits
  - Journaling decisions to CSV or SQLite

Complete documentation is available at https://github.com/rustyeddy/allocator`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; flags and config files win.
		_ = godotenv.Load()

		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).Level(level).With().Timestamp().Logger()
	},
}

var verbose bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
