// Package cli provides the command-line interface for the simulator.
package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"artha-sim/internal/config"
	"artha-sim/internal/logging"
	"artha-sim/internal/marketdata"
	"artha-sim/internal/session"
	"artha-sim/internal/store"
	"artha-sim/internal/trading"
	"artha-sim/pkg/utils"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-31"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "artha",
		Short: "Artha - Indian equity trading simulator",
		Long: `Artha is a paper-trading simulator for the Indian stock market.

It tracks a cash balance and per-symbol transaction ledgers, charges
realistic NSE delivery costs on every trade, and reports annualized
returns (XIRR) per position. Prices come from a deterministic synthetic
feed; no broker connection is required.

Use 'artha help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/artha-sim)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newBuyCmd(app))
	rootCmd.AddCommand(newSellCmd(app))
	rootCmd.AddCommand(newPortfolioCmd(app))
	rootCmd.AddCommand(newReturnsCmd(app))
	rootCmd.AddCommand(newCostsCmd(app))
	rootCmd.AddCommand(newAdvanceCmd(app))
	rootCmd.AddCommand(newReportCmd(app))
	rootCmd.AddCommand(newResetCmd(app))

	return rootCmd
}

// openSession builds a session from configuration, attaches the SQLite
// store, and restores any persisted state. The caller owns both returned
// handles and must Close them.
func (app *App) openSession(cmd *cobra.Command) (*session.Session, store.Store, error) {
	configDir, _ := cmd.Flags().GetString("config")

	st, err := store.NewSQLiteStore(config.DatabasePath(configDir))
	if err != nil {
		return nil, nil, err
	}

	cfg := app.Config
	sess := session.New(session.Config{
		InitialCapital: decimal.NewFromFloat(cfg.Simulation.InitialCapital),
		StartDate:      time.Now().Truncate(24 * time.Hour),
		TotalDays:      cfg.Simulation.TotalDays,
		Symbols:        cfg.Simulation.Symbols,
		Costs: trading.NewCostModelFromRates(
			cfg.Costs.BrokerageRate,
			cfg.Costs.BrokerageCap,
			cfg.Costs.STTRateSell,
			cfg.Costs.ExchangeRate,
			cfg.Costs.GSTRate,
			cfg.Costs.SEBIRate,
		),
	}, marketdata.NewSyntheticProvider().Price, st, app.Logger)

	if err := sess.Restore(context.Background()); err != nil {
		sess.Close()
		st.Close()
		return nil, nil, err
	}

	return sess, st, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Artha Simulator v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Simulation")
	output.Printf("  Initial Capital: %s\n", utils.FormatIndianCurrency(cfg.Simulation.InitialCapital))
	output.Printf("  Total Days:      %d\n", cfg.Simulation.TotalDays)
	output.Printf("  Symbols:         %v\n", cfg.Simulation.Symbols)
	output.Println()

	output.Bold("Transaction Costs")
	output.Printf("  Brokerage:       %.4f%% (cap %s)\n", cfg.Costs.BrokerageRate*100, utils.FormatIndianCurrency(cfg.Costs.BrokerageCap))
	output.Printf("  STT (sell):      %.4f%%\n", cfg.Costs.STTRateSell*100)
	output.Printf("  Exchange:        %.5f%%\n", cfg.Costs.ExchangeRate*100)
	output.Printf("  GST on fees:     %.0f%%\n", cfg.Costs.GSTRate*100)
	output.Printf("  SEBI:            %.5f%%\n", cfg.Costs.SEBIRate*100)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  Console:         %v\n", cfg.Logging.Console)
	output.Printf("  File:            %v\n", cfg.Logging.File)

	return nil
}
