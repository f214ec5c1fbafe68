package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"artha-sim/pkg/utils"
)

func newAdvanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "advance [days]",
		Short: "Advance the simulation clock",
		Long: `Advance the simulation by the given number of days (default 1),
repricing every open position at each new day's synthetic price. The
clock stops at the configured horizon.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			days := 1
			if len(args) == 1 {
				var err error
				days, err = strconv.Atoi(args[0])
				if err != nil || days <= 0 {
					output.Error("Invalid day count: %s", args[0])
					return fmt.Errorf("invalid day count %q", args[0])
				}
			}

			sess, st, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			defer sess.Close()

			advanced := 0
			for i := 0; i < days; i++ {
				if !sess.AdvanceDay() {
					break
				}
				advanced++
			}

			if err := sess.Save(context.Background()); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"advanced": advanced,
					"day":      sess.Day(),
					"date":     sess.Date(),
				})
			}
			if advanced < days {
				output.Warning("⚠ Simulation horizon reached at day %d", sess.Day())
			} else {
				color.Green("✓ Advanced %d day(s) to day %d (%s)", advanced, sess.Day(), sess.Date().Format("02-Jan-2006"))
			}
			return nil
		},
	}
}

func newReportCmd(app *App) *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the FIFO lot-matching report",
		Long: `Show realized P&L broken down into FIFO buy/sell lot matches.

This is a reporting convention: the portfolio's booked realized P&L
uses average cost and the two figures legitimately differ. Use --csv
to export the lot rows.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			sess, st, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			defer sess.Close()

			records := sess.LotReport()

			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := gocsv.MarshalFile(&records, f); err != nil {
					return err
				}
				color.Green("✓ Exported %d lot matches to %s", len(records), csvPath)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(records)
			}

			color.Cyan("🧾 FIFO Lot Report")
			if len(records) == 0 {
				output.Dim("  No realized lots yet")
				return nil
			}

			output.Bold("  %-12s %8s %12s %12s %14s", "SYMBOL", "QTY", "BUY", "SELL", "LOT P&L")
			for _, rec := range records {
				output.Printf("  %-12s %8s %12s %12s %14s\n",
					rec.Symbol,
					utils.FormatQuantity(int64(rec.Quantity)),
					rec.BuyPrice,
					rec.SellPrice,
					rec.PnL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "export lot matches to a CSV file")
	return cmd
}

func newResetCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe the saved simulation and start over",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if !force {
				output.Warning("⚠ This deletes all saved transactions and portfolio state.")
				output.Println("Re-run with --force to confirm.")
				return nil
			}

			sess, st, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			defer sess.Close()

			if err := st.Reset(context.Background()); err != nil {
				return err
			}
			color.Green("✓ Simulation reset: starting capital %s",
				utils.FormatIndianCurrency(app.Config.Simulation.InitialCapital))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "skip confirmation")
	return cmd
}
