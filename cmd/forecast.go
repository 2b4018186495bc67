package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stockops.GO/config"
	"stockops.GO/service/forecast"
)

var forecastWindow int

var forecastCmd = &cobra.Command{
	Use:   "forecast:run",
	Short: "Compute the stock overview and print components needing action",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}

		res, err := forecast.OverviewWindow(db, time.Now(), forecastWindow)
		if err != nil {
			fmt.Printf("Forecast failed: %v\n", err)
			return
		}

		for _, w := range res.Warnings {
			fmt.Printf("  [warn] %s\n", w)
		}

		for _, cs := range res.Components {
			if cs.Status == forecast.StatusOK {
				continue
			}
			days := "n/a"
			if cs.DaysRemaining != nil {
				days = fmt.Sprintf("%.1f", *cs.DaysRemaining)
			}
			fmt.Printf("%-12s %-24s on_hand=%-5d available=%-5d on_order=%-5d velocity=%.2f/day days_left=%-6s suggest=%d\n",
				cs.Status, cs.SKU, cs.OnHand, cs.Available, cs.OnOrder, cs.Velocity, days, cs.SuggestedOrderQty)
		}

		fmt.Printf(`
=== Stock Summary ===
OK:           %d
Warning:      %d
Critical:     %d
Out of stock: %d
Units on PO:  %d
=====================
`, res.Summary.OK, res.Summary.Warning, res.Summary.Critical, res.Summary.OutOfStock, res.Summary.OnOrder)
	},
}

func init() {
	forecastCmd.Flags().IntVar(&forecastWindow, "window", 0, "Velocity window in days (default: configured window)")
	rootCmd.AddCommand(forecastCmd)
}
