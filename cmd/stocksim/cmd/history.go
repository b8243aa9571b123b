package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stocksim/config"
	"github.com/rustyeddy/stocksim/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print journaled orders from a SQLite journal",
	Long: `History reads a SQLite journal written by a previous run and prints
order records, optionally filtered by ticker or date range.

Example:
  stocksim history --db backtest.sqlite --ticker AAPL`,
	RunE: showHistory,
}

var (
	histDBPath string
	histTicker string
	histStart  string
	histEnd    string
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVarP(&histDBPath, "db", "d", "./backtest.sqlite", "path to SQLite journal DB")
	historyCmd.Flags().StringVar(&histTicker, "ticker", "", "only this ticker")
	historyCmd.Flags().StringVar(&histStart, "start", "", "orders at or after this date")
	historyCmd.Flags().StringVar(&histEnd, "end", "", "orders before this date")
}

func showHistory(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(histDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	var recs []journal.OrderRecord
	switch {
	case histTicker != "":
		recs, err = j.ListOrdersByTicker(histTicker)
	case histStart != "" && histEnd != "":
		start, perr := config.ParseDate(histStart)
		if perr != nil {
			return perr
		}
		end, perr := config.ParseDate(histEnd)
		if perr != nil {
			return perr
		}
		recs, err = j.ListOrdersBetween(start, end)
	default:
		return fmt.Errorf("need --ticker or both --start and --end")
	}
	if err != nil {
		return err
	}

	for _, r := range recs {
		fmt.Printf("%s  %-6s %-4s %5d @ %.2f (commission %.2f) run=%s\n",
			r.Time.Format("2006-01-02 15:04"), r.Ticker, r.Side, r.Quantity, r.Price, r.Commission, r.RunID)
	}
	if len(recs) == 0 {
		fmt.Println("no orders")
	}
	return nil
}
