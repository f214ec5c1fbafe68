package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Artha Simulator Configuration

[simulation]
# Starting cash balance in INR
initial_capital = 1000000.0
# Length of a simulation run in trading days
total_days = 30
# Symbols available to trade
symbols = ["RELIANCE", "TCS", "INFY"]

[costs]
# Brokerage: 0.03% of trade value, capped per order
brokerage_rate = 0.0003
brokerage_cap = 20.0
# Securities transaction tax, charged on the sell leg only
stt_rate_sell = 0.001
# Exchange transaction charges, both sides
exchange_rate = 0.0000325
# GST on brokerage + exchange charges
gst_rate = 0.18
# SEBI turnover fee (Rs 10 per crore)
sebi_rate = 0.000001

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to console
console = true
# Log to rotating file under the config directory
file = true
`

// createTemplateConfig writes a commented config template so users can see
// every knob. Called when no config file exists; the defaults stay in
// effect for the current run.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil // already exists
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}
