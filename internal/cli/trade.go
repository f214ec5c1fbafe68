package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"artha-sim/internal/models"
	"artha-sim/pkg/utils"
)

func newBuyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <symbol> <quantity>",
		Short: "Buy shares at today's simulated price",
		Long: `Buy shares of a symbol at today's simulated price.

The trade is charged full delivery costs (brokerage, exchange charges,
GST and SEBI fee) and is rejected if cash cannot cover value plus
charges. The order is all-or-nothing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrade(app, cmd, args, models.OrderSideBuy)
		},
	}
}

func newSellCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sell <symbol> <quantity>",
		Short: "Sell shares at today's simulated price",
		Long: `Sell shares of a symbol at today's simulated price.

The sell leg additionally attracts STT. Proceeds net of all charges are
credited to cash; realized P&L is booked against the position's average
buy price. Selling more than the held quantity is rejected.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrade(app, cmd, args, models.OrderSideSell)
		},
	}
}

func runTrade(app *App, cmd *cobra.Command, args []string, side models.OrderSide) error {
	output := NewOutput(cmd)

	symbol := strings.ToUpper(args[0])
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		output.Error("Invalid quantity: %s", args[1])
		return fmt.Errorf("invalid quantity %q", args[1])
	}

	sess, st, err := app.openSession(cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	defer sess.Close()

	ctx := context.Background()
	var result models.TradeResult
	if side == models.OrderSideBuy {
		result = sess.Buy(ctx, symbol, quantity)
	} else {
		result = sess.Sell(ctx, symbol, quantity)
	}

	if output.IsJSON() {
		if err := output.JSON(result); err != nil {
			return err
		}
	} else {
		printTradeResult(output, result, side)
	}

	if !result.Success {
		return fmt.Errorf("%s %s rejected: %s", side, symbol, result.Message)
	}
	return sess.Save(ctx)
}

func printTradeResult(output *Output, result models.TradeResult, side models.OrderSide) {
	if !result.Success {
		color.Red("✗ %s rejected: %s", side, result.Message)
		return
	}

	if side == models.OrderSideBuy {
		color.Green("✓ Bought %d %s @ %s", result.Quantity, result.Symbol,
			utils.FormatIndianCurrency(result.ExecutedPrice.InexactFloat64()))
		output.Printf("  Total debit:  %s (incl. charges)\n",
			utils.FormatIndianCurrency(result.TotalCost.InexactFloat64()))
	} else {
		color.Green("✓ Sold %d %s @ %s", result.Quantity, result.Symbol,
			utils.FormatIndianCurrency(result.ExecutedPrice.InexactFloat64()))
		output.Printf("  Net credit:   %s (after charges)\n",
			utils.FormatIndianCurrency(result.NetProceeds.InexactFloat64()))
		pnl := result.RealizedPnL.InexactFloat64()
		output.Printf("  Realized P&L: %s\n",
			output.PnLString(utils.FormatPnL(pnl), pnl < 0))
	}
	printBreakdown(output, result.Breakdown)
}

func printBreakdown(output *Output, b models.CostBreakdown) {
	r := b.Rounded()
	output.Dim("  Charges: brokerage %s  STT %s  exchange %s  GST %s  SEBI %s  total %s",
		r.Brokerage.StringFixed(2),
		r.STT.StringFixed(2),
		r.ExchangeCharges.StringFixed(2),
		r.GST.StringFixed(2),
		r.SEBICharges.StringFixed(2),
		r.Total.StringFixed(2))
}

func newCostsCmd(app *App) *cobra.Command {
	var side string

	cmd := &cobra.Command{
		Use:   "costs <symbol> <quantity>",
		Short: "Preview the charge breakdown for a trade",
		Long: `Preview the full charge breakdown for a trade at today's simulated
price without executing it. Use --side sell to include STT.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			symbol := strings.ToUpper(args[0])
			quantity, err := strconv.Atoi(args[1])
			if err != nil || quantity <= 0 {
				output.Error("Invalid quantity: %s", args[1])
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			orderSide := models.OrderSideBuy
			if strings.EqualFold(side, "sell") {
				orderSide = models.OrderSideSell
			}

			sess, st, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			defer sess.Close()

			price := sess.CurrentPrice(symbol)
			breakdown := sess.PreviewCost(symbol, quantity, orderSide)
			value := price.Mul(decimal.NewFromInt(int64(quantity)))

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":    symbol,
					"side":      orderSide,
					"quantity":  quantity,
					"price":     price,
					"value":     value,
					"breakdown": breakdown.Rounded(),
				})
			}

			color.Cyan("💰 Charge Preview - %s %s", orderSide, symbol)
			output.Printf("  Price:       %s\n", utils.FormatIndianCurrency(price.InexactFloat64()))
			output.Printf("  Quantity:    %s\n", utils.FormatQuantity(int64(quantity)))
			output.Printf("  Trade value: %s\n", utils.FormatIndianCurrency(value.InexactFloat64()))
			printBreakdown(output, breakdown)
			if orderSide == models.OrderSideBuy {
				output.Dim("  STT applies on the sell leg only")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&side, "side", "buy", "trade side: buy or sell")
	return cmd
}
