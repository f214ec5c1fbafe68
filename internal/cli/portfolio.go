package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"artha-sim/internal/session"
	"artha-sim/pkg/utils"
)

func newPortfolioCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "portfolio",
		Aliases: []string{"pf"},
		Short:   "Show cash, positions and P&L",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			sess, st, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			defer sess.Close()

			report := sess.Report()
			if output.IsJSON() {
				return output.JSON(report)
			}
			printPortfolio(output, report)
			return nil
		},
	}
}

func printPortfolio(output *Output, report session.PortfolioReport) {
	color.Cyan("📊 Portfolio - Day %d (%s)", report.Day, report.Date.Format("02-Jan-2006"))
	output.Printf("  Cash:          %s\n", utils.FormatIndianCurrency(report.Cash.InexactFloat64()))
	output.Printf("  Invested:      %s\n", utils.FormatIndianCurrency(report.InvestedAmount.InexactFloat64()))
	output.Printf("  Market Value:  %s\n", utils.FormatIndianCurrency(report.MarketValue.InexactFloat64()))
	output.Printf("  Total Value:   %s\n", utils.FormatIndianCurrency(report.TotalValue.InexactFloat64()))
	output.Println()

	realized := report.AverageCostRealizedPnL.InexactFloat64()
	unrealized := report.UnrealizedPnL.InexactFloat64()
	total := report.TotalPnL.InexactFloat64()
	output.Printf("  Realized P&L:   %s\n", output.PnLString(utils.FormatPnL(realized), realized < 0))
	output.Printf("  Unrealized P&L: %s\n", output.PnLString(utils.FormatPnL(unrealized), unrealized < 0))
	output.Printf("  Total P&L:      %s\n", output.PnLString(utils.FormatPnL(total), total < 0))

	if len(report.Positions) == 0 {
		output.Println()
		output.Dim("  No open positions")
		return
	}

	output.Println()
	output.Bold("  %-12s %8s %12s %12s %14s %14s %9s", "SYMBOL", "QTY", "AVG BUY", "LTP", "MKT VALUE", "UNREAL P&L", "P&L %")
	for _, pos := range report.Positions {
		pnl := pos.UnrealizedPnL.InexactFloat64()
		line := output.PnLString(utils.FormatPnL(pnl), pnl < 0)
		marker := ""
		if pos.Synthetic {
			marker = " *"
		}
		output.Printf("  %-12s %8s %12s %12s %14s %14s %8s%s\n",
			pos.Symbol,
			utils.FormatQuantity(int64(pos.Quantity)),
			pos.AvgBuyPrice.StringFixed(2),
			pos.CurrentPrice.StringFixed(2),
			utils.FormatCompact(pos.MarketValue.InexactFloat64()),
			line,
			utils.FormatPercent(pos.UnrealizedPnLPct.InexactFloat64()),
			marker)
	}
	for _, pos := range report.Positions {
		if pos.Synthetic {
			output.Dim("  * migrated position: history starts from a synthetic opening lot")
			break
		}
	}
}

func newReturnsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "returns",
		Short: "Show annualized returns (XIRR) per position",
		Long: `Show the annualized internal rate of return for every open position.

Each position's cash flows (buys negative, sells positive, current
market value as a terminal inflow) are solved for the rate that prices
them to zero. A position whose rate cannot be bracketed reports 0.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			sess, st, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			defer sess.Close()

			report := sess.Report()
			if output.IsJSON() {
				return output.JSON(report.Positions)
			}

			color.Cyan("📈 Annualized Returns - Day %d", report.Day)
			if len(report.Positions) == 0 {
				output.Dim("  No open positions")
				return nil
			}

			output.Bold("  %-12s %8s %12s %14s %10s", "SYMBOL", "QTY", "AVG BUY", "UNREAL P&L", "XIRR")
			for _, pos := range report.Positions {
				pnl := pos.UnrealizedPnL.InexactFloat64()
				output.Printf("  %-12s %8s %12s %14s %10s\n",
					pos.Symbol,
					utils.FormatQuantity(int64(pos.Quantity)),
					pos.AvgBuyPrice.StringFixed(2),
					output.PnLString(utils.FormatPnL(pnl), pnl < 0),
					utils.FormatPercent(pos.XIRR*100))
			}
			return nil
		},
	}
}
