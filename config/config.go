// Package config loads and validates simulation run configuration from YAML
// or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/stocksim/calendar"
)

// Config represents a complete simulation run configuration.
type Config struct {
	Account    AccountConfig    `json:"account" yaml:"account"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Strategy   StrategyConfig   `json:"strategy" yaml:"strategy"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
}

// AccountConfig contains ledger initialization parameters.
type AccountConfig struct {
	Cash           float64 `json:"cash" yaml:"cash"`
	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate"`
}

// SimulationConfig contains the replay window and data source.
type SimulationConfig struct {
	// Start and End accept "2006-01-02" or "2006-01-02 15:04", read as
	// exchange-local time. End is exclusive.
	Start   string `json:"start" yaml:"start"`
	End     string `json:"end" yaml:"end"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// StrategyConfig names the strategy and its parameters.
type StrategyConfig struct {
	Name     string `json:"name" yaml:"name"`
	Ticker   string `json:"ticker" yaml:"ticker"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type          string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	OrdersFile    string `json:"orders_file,omitempty" yaml:"orders_file,omitempty"`
	SnapshotsFile string `json:"snapshots_file,omitempty" yaml:"snapshots_file,omitempty"`
	DBPath        string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

var dateLayouts = []string{"2006-01-02 15:04", time.DateOnly}

// ParseDate reads a config date string in exchange-local time.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, calendar.Exchange()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want 2006-01-02 or 2006-01-02 15:04)", s)
}

// StartDate returns the parsed replay start.
func (c *Config) StartDate() (time.Time, error) { return ParseDate(c.Simulation.Start) }

// EndDate returns the parsed exclusive replay end.
func (c *Config) EndDate() (time.Time, error) { return ParseDate(c.Simulation.End) }

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, choosing the format by extension.
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
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Account.Cash < 0 {
		return fmt.Errorf("account.cash must not be negative")
	}
	if c.Account.CommissionRate < 0 || c.Account.CommissionRate > 1 {
		return fmt.Errorf("account.commission_rate must be in [0, 1]")
	}

	start, err := c.StartDate()
	if err != nil {
		return fmt.Errorf("simulation.start: %w", err)
	}
	end, err := c.EndDate()
	if err != nil {
		return fmt.Errorf("simulation.end: %w", err)
	}
	if !end.After(start) {
		return fmt.Errorf("simulation.end must be after simulation.start")
	}
	if c.Simulation.DataDir == "" {
		return fmt.Errorf("simulation.data_dir is required")
	}

	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}

	switch c.Journal.Type {
	case "none", "":
	case "csv":
		if c.Journal.OrdersFile == "" || c.Journal.SnapshotsFile == "" {
			return fmt.Errorf("journal orders_file and snapshots_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Cash:           100_000,
			CommissionRate: 0.003,
		},
		Simulation: SimulationConfig{
			Start:   time.Now().AddDate(0, -1, 0).Format(time.DateOnly),
			End:     time.Now().Format(time.DateOnly),
			DataDir: "./data",
		},
		Strategy: StrategyConfig{
			Name:     "noop",
			Ticker:   "AAPL",
			Quantity: 1,
		},
		Journal: JournalConfig{
			Type:          "csv",
			OrdersFile:    "./orders.csv",
			SnapshotsFile: "./snapshots.csv",
		},
	}
}
