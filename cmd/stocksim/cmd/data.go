package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/market/data"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Download bar archives into the offline data directory",
	Long: `Data fetches a bar archive (plain CSV, .csv.xz or .zip) and installs
it under <dir>/<TICKER>/<interval>.csv, the layout the run command reads.

Example:
  stocksim data --url https://example.com/AAPL-1d.csv.xz --ticker AAPL --interval 1d`,
	RunE: fetchData,
}

var (
	dataURL      string
	dataTicker   string
	dataInterval string
	dataDir      string
)

func init() {
	rootCmd.AddCommand(dataCmd)

	dataCmd.Flags().StringVar(&dataURL, "url", "", "archive URL (required)")
	dataCmd.Flags().StringVar(&dataTicker, "ticker", "", "ticker symbol (required)")
	dataCmd.Flags().StringVar(&dataInterval, "interval", "1d", "bar interval (1m, 30m, 1h, 1d, ...)")
	dataCmd.Flags().StringVar(&dataDir, "dir", "./data", "data directory")

	dataCmd.MarkFlagRequired("url")
	dataCmd.MarkFlagRequired("ticker")
}

func fetchData(cmd *cobra.Command, args []string) error {
	iv := market.Interval(dataInterval)
	if !iv.Valid() {
		return fmt.Errorf("unknown interval %q", dataInterval)
	}

	f := data.NewFetcher(dataDir)
	if err := f.Fetch(context.Background(), dataURL, dataTicker, iv); err != nil {
		return err
	}
	fmt.Printf("installed %s %s into %s\n", dataTicker, iv, dataDir)
	return nil
}
