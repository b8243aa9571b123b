package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stocksim",
	Short: "A discrete-event backtesting simulator for equity strategies",
	Long: `Stocksim replays historical equity prices across a simulated trading
calendar and accounts for cash, positions and commission as a strategy
issues orders.

It provides tools for:
  - Backtesting strategies hour by hour over historical bar data
  - FIFO cost-basis and commission accounting
  - Journaling orders and end-of-day portfolio snapshots
  - Downloading bar archives into the offline data layout`,
}

var logLevel string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

func newLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
