package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stocksim/config"
	"github.com/rustyeddy/stocksim/journal"
	"github.com/rustyeddy/stocksim/market/data"
	"github.com/rustyeddy/stocksim/sim"
	"github.com/rustyeddy/stocksim/strategies"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest simulation",
	Long: `Run replays the configured date range against an offline bar data
directory, invoking the strategy once per simulated trading hour and
printing the final portfolio report.

Example:
  stocksim run --config sim.yaml`,
	RunE: runSimulation,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to YAML/JSON run configuration (required)")
	runCmd.MarkFlagRequired("config")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return err
	}

	start, err := cfg.StartDate()
	if err != nil {
		return err
	}
	end, err := cfg.EndDate()
	if err != nil {
		return err
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	provider := data.NewCSVProvider(cfg.Simulation.DataDir)
	acct, err := sim.NewAccount(cfg.Account.Cash, cfg.Account.CommissionRate, provider)
	if err != nil {
		return err
	}
	acct.SetLogger(newLogger())
	acct.SetJournal(j)

	strat, err := strategies.ByName(cfg.Strategy.Name, cfg.Strategy.Ticker, cfg.Strategy.Quantity)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := acct.Run(ctx, start, end, strat); err != nil {
		return err
	}

	fmt.Printf("run %s finished\n\n", acct.RunID())
	return acct.WriteReport(ctx, os.Stdout)
}

func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	case "csv":
		return journal.NewCSV(cfg.OrdersFile, cfg.SnapshotsFile)
	default:
		return journal.Noop{}, nil
	}
}
