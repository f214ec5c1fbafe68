package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Simulation.InitialCapital != 1000000.0 {
		t.Errorf("initial capital: got %f, want 1000000", cfg.Simulation.InitialCapital)
	}
	if cfg.Simulation.TotalDays != 30 {
		t.Errorf("total days: got %d, want 30", cfg.Simulation.TotalDays)
	}
	if cfg.Costs.BrokerageRate != 0.0003 || cfg.Costs.BrokerageCap != 20.0 {
		t.Errorf("brokerage defaults: got %+v", cfg.Costs)
	}

	// A commented template should have been written for next time.
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("expected a template config file: %v", err)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[simulation]
initial_capital = 500000.0
total_days = 60
symbols = ["SBIN"]

[costs]
stt_rate_sell = 0.002
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Simulation.InitialCapital != 500000.0 {
		t.Errorf("initial capital: got %f", cfg.Simulation.InitialCapital)
	}
	if cfg.Simulation.TotalDays != 60 {
		t.Errorf("total days: got %d", cfg.Simulation.TotalDays)
	}
	if cfg.Costs.STTRateSell != 0.002 {
		t.Errorf("stt rate: got %f", cfg.Costs.STTRateSell)
	}
	// Unset keys keep their defaults.
	if cfg.Costs.BrokerageRate != 0.0003 {
		t.Errorf("brokerage rate default: got %f", cfg.Costs.BrokerageRate)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARTHA_INITIAL_CAPITAL", "250000")
	t.Setenv("ARTHA_TOTAL_DAYS", "5")
	t.Setenv("ARTHA_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Simulation.InitialCapital != 250000 {
		t.Errorf("initial capital: got %f", cfg.Simulation.InitialCapital)
	}
	if cfg.Simulation.TotalDays != 5 {
		t.Errorf("total days: got %d", cfg.Simulation.TotalDays)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level: got %s", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		return &Config{
			Simulation: SimulationConfig{InitialCapital: 1000000, TotalDays: 30},
			Costs:      CostConfig{BrokerageRate: 0.0003, BrokerageCap: 20, STTRateSell: 0.001, ExchangeRate: 0.0000325, GSTRate: 0.18, SEBIRate: 0.000001},
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero capital", func(c *Config) { c.Simulation.InitialCapital = 0 }},
		{"negative capital", func(c *Config) { c.Simulation.InitialCapital = -1 }},
		{"zero days", func(c *Config) { c.Simulation.TotalDays = 0 }},
		{"rate of 1", func(c *Config) { c.Costs.GSTRate = 1.0 }},
		{"negative rate", func(c *Config) { c.Costs.STTRateSell = -0.001 }},
		{"negative cap", func(c *Config) { c.Costs.BrokerageCap = -5 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := base()
			c.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := base().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}
