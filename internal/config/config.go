// Package config provides configuration management for the simulator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Costs      CostConfig       `mapstructure:"costs"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SimulationConfig holds the simulation parameters.
type SimulationConfig struct {
	InitialCapital float64  `mapstructure:"initial_capital"`
	TotalDays      int      `mapstructure:"total_days"`
	Symbols        []string `mapstructure:"symbols"`
}

// CostConfig holds the transaction cost rates. Defaults follow NSE delivery
// charges; they exist as configuration so historical rate changes do not
// require a rebuild.
type CostConfig struct {
	BrokerageRate float64 `mapstructure:"brokerage_rate"`
	BrokerageCap  float64 `mapstructure:"brokerage_cap"`
	STTRateSell   float64 `mapstructure:"stt_rate_sell"`
	ExchangeRate  float64 `mapstructure:"exchange_rate"`
	GSTRate       float64 `mapstructure:"gst_rate"`
	SEBIRate      float64 `mapstructure:"sebi_rate"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/artha-sim"
	}
	return filepath.Join(home, ".config", "artha-sim")
}

// DatabasePath returns the SQLite database path under the config directory.
func DatabasePath(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "artha.db")
}

// Load loads configuration from the specified directory. If configDir is
// empty, uses the default config directory. A missing config file is not an
// error: a commented template is written and the defaults are used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return nil, fmt.Errorf("writing config template: %w", err)
			}
		} else {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// 10 lakh starting capital, 30 trading days
	v.SetDefault("simulation.initial_capital", 1000000.0)
	v.SetDefault("simulation.total_days", 30)
	v.SetDefault("simulation.symbols", []string{"RELIANCE", "TCS", "INFY"})

	v.SetDefault("costs.brokerage_rate", 0.0003)
	v.SetDefault("costs.brokerage_cap", 20.0)
	v.SetDefault("costs.stt_rate_sell", 0.001)
	v.SetDefault("costs.exchange_rate", 0.0000325)
	v.SetDefault("costs.gst_rate", 0.18)
	v.SetDefault("costs.sebi_rate", 0.000001)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ARTHA_INITIAL_CAPITAL"); v != "" {
		if capital, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Simulation.InitialCapital = capital
		}
	}
	if v := os.Getenv("ARTHA_TOTAL_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Simulation.TotalDays = days
		}
	}
	if v := os.Getenv("ARTHA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Simulation.InitialCapital <= 0 {
		return fmt.Errorf("initial_capital must be positive")
	}
	if c.Simulation.TotalDays <= 0 {
		return fmt.Errorf("total_days must be positive")
	}

	rates := map[string]float64{
		"brokerage_rate": c.Costs.BrokerageRate,
		"stt_rate_sell":  c.Costs.STTRateSell,
		"exchange_rate":  c.Costs.ExchangeRate,
		"gst_rate":       c.Costs.GSTRate,
		"sebi_rate":      c.Costs.SEBIRate,
	}
	for name, rate := range rates {
		if rate < 0 || rate >= 1 {
			return fmt.Errorf("%s must be in [0, 1)", name)
		}
	}
	if c.Costs.BrokerageCap < 0 {
		return fmt.Errorf("brokerage_cap must be non-negative")
	}

	return nil
}
