// Package config loads and validates allocator configuration from YAML or
// JSON files, with environment overrides applied by the CLI layer.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/allocator/risk"
)

// Config represents the complete allocator configuration
type Config struct {
	Account   AccountConfig   `json:"account" yaml:"account"`
	Portfolio PortfolioConfig `json:"portfolio" yaml:"portfolio"`
	Risk      RiskConfig      `json:"risk" yaml:"risk"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

// PortfolioConfig contains rebalancing parameters
type PortfolioConfig struct {
	RebalanceInterval string `json:"rebalance_interval" yaml:"rebalance_interval"` // e.g. "4h", "30m"

	// RegimeChangeThreshold is accepted for compatibility with older config
	// files. Rebalancing triggers on any regime label change, so the value
	// is not consulted.
	RegimeChangeThreshold float64 `json:"regime_change_threshold,omitempty" yaml:"regime_change_threshold,omitempty"`
}

// ParseInterval converts the rebalance interval string to a time.Duration
func (p PortfolioConfig) ParseInterval() (time.Duration, error) {
	if p.RebalanceInterval == "" {
		return 0, nil
	}
	return time.ParseDuration(p.RebalanceInterval)
}

// RiskConfig contains portfolio risk limits as fractions of equity
type RiskConfig struct {
	MaxPortfolioRisk  float64 `json:"max_portfolio_risk" yaml:"max_portfolio_risk"`
	MaxSingleTrade    float64 `json:"max_single_trade" yaml:"max_single_trade"`
	MaxCorrelatedRisk float64 `json:"max_correlated_risk" yaml:"max_correlated_risk"`
	DailyLossLimit    float64 `json:"daily_loss_limit" yaml:"daily_loss_limit"`
	WeeklyLossLimit   float64 `json:"weekly_loss_limit" yaml:"weekly_loss_limit"`
	MinRiskReward     float64 `json:"min_risk_reward" yaml:"min_risk_reward"`
}

// Limits converts the config section to the evaluator's limit set
func (r RiskConfig) Limits() risk.Limits {
	return risk.Limits{
		MaxPortfolioRisk:  r.MaxPortfolioRisk,
		MaxSingleTrade:    r.MaxSingleTrade,
		MaxCorrelatedRisk: r.MaxCorrelatedRisk,
		DailyLossLimit:    r.DailyLossLimit,
		WeeklyLossLimit:   r.WeeklyLossLimit,
		MinRiskReward:     r.MinRiskReward,
	}
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	AllocFile  string `json:"alloc_file,omitempty" yaml:"alloc_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on content)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if _, err := c.Portfolio.ParseInterval(); err != nil {
		return fmt.Errorf("portfolio.rebalance_interval: %w", err)
	}
	if c.Risk.MaxPortfolioRisk <= 0 || c.Risk.MaxPortfolioRisk > 1 {
		return fmt.Errorf("risk.max_portfolio_risk must be between 0 and 1")
	}
	if c.Risk.MaxSingleTrade <= 0 || c.Risk.MaxSingleTrade > c.Risk.MaxPortfolioRisk {
		return fmt.Errorf("risk.max_single_trade must be positive and within max_portfolio_risk")
	}
	if c.Risk.MaxCorrelatedRisk <= 0 || c.Risk.MaxCorrelatedRisk > c.Risk.MaxPortfolioRisk {
		return fmt.Errorf("risk.max_correlated_risk must be positive and within max_portfolio_risk")
	}
	if c.Risk.DailyLossLimit <= 0 || c.Risk.WeeklyLossLimit < c.Risk.DailyLossLimit {
		return fmt.Errorf("risk loss limits must be positive with weekly >= daily")
	}
	if c.Risk.MinRiskReward < 1 {
		return fmt.Errorf("risk.min_risk_reward must be at least 1")
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && (c.Journal.TradesFile == "" || c.Journal.AllocFile == "") {
		return fmt.Errorf("journal trades_file and alloc_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "ALLOC-001",
			Currency: "USDT",
			Balance:  100000,
		},
		Portfolio: PortfolioConfig{
			RebalanceInterval:     "4h",
			RegimeChangeThreshold: 0.7,
		},
		Risk: RiskConfig{
			MaxPortfolioRisk:  0.06,
			MaxSingleTrade:    0.025,
			MaxCorrelatedRisk: 0.04,
			DailyLossLimit:    0.02,
			WeeklyLossLimit:   0.08,
			MinRiskReward:     2.0,
		},
		Journal: JournalConfig{
			Type:       "csv",
			TradesFile: "./trades.csv",
			AllocFile:  "./allocations.csv",
		},
	}
}
