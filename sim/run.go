package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/stocksim/calendar"
	"github.com/rustyeddy/stocksim/journal"
	"github.com/rustyeddy/stocksim/market"
)

// Strategy is invoked once per clock tick with the account's full query and
// order surface. Returning an error that wraps market.ErrEmptyData tells
// the run loop to skip the rest of the session; any other error aborts the
// run.
type Strategy interface {
	OnTick(ctx context.Context, acct *Account) error
}

// Run replays the trading calendar from start up to, and excluding, end.
// Both bounds are read as exchange-local wall-clock times. Each tick
// advances the clock, rebuilds the market view at the new instant, and
// invokes the strategy; session closes additionally record a portfolio
// snapshot in the journal.
//
// An exchange holiday surfaces as market.ErrEmptyData escaping the
// strategy; the run skips to the next business day's open and continues.
func (a *Account) Run(ctx context.Context, start, end time.Time, strat Strategy) error {
	if strat == nil {
		return fmt.Errorf("nil strategy: %w", ErrInvalidConfig)
	}
	start = calendar.Localize(start)
	end = calendar.Localize(end)
	if !end.After(start) {
		return fmt.Errorf("run %s to %s: %w",
			start.Format(time.DateOnly), end.Format(time.DateOnly), ErrInvalidInterval)
	}
	a.end = end

	clock := calendar.NewClock(start)
	for now := clock.Tick(); now.Before(end); {
		a.beginTick(now)

		if err := strat.OnTick(ctx, a); err != nil {
			if errors.Is(err, market.ErrEmptyData) {
				a.logger.Info("no session data, skipping day",
					slog.String("date", now.Format(time.DateOnly)))
				// The skipped-to open is itself the next tick;
				// re-ticking here would jump past it to 10:30.
				now = clock.SkipDay()
				continue
			}
			return fmt.Errorf("strategy at %s: %w", now.Format(time.DateTime), err)
		}

		if calendar.IsSessionClose(now) {
			a.snapshot(ctx)
		}
		now = clock.Tick()
	}
	return nil
}

// snapshot records end-of-day portfolio state. Valuation hiccups degrade to
// a warning; they must not end the run.
func (a *Account) snapshot(ctx context.Context) {
	active, err := a.ActiveMoney(ctx)
	if err != nil {
		a.logger.Warn("snapshot valuation failed",
			slog.String("date", a.date.Format(time.DateOnly)), slog.Any("error", err))
		return
	}
	err = a.journal.RecordSnapshot(journal.Snapshot{
		RunID:         a.runID,
		Time:          a.date,
		FreeMoney:     a.cash,
		ActiveMoney:   active,
		PortfolioCost: a.cash + active,
	})
	if err != nil {
		a.logger.Error("journal snapshot failed", slog.Any("error", err))
	}
}
