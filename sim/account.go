// Package sim is the simulation engine: a cash-and-positions ledger that
// executes market orders against the current price resolution and replays a
// strategy across the trading calendar.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/stocksim/calendar"
	"github.com/rustyeddy/stocksim/journal"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/pkg/id"
)

// Side of an executed order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// HistoryEntry records one executed order. The per-ticker history is
// append-only and timestamp-monotonic.
type HistoryEntry struct {
	Time       time.Time
	Side       Side
	Quantity   int
	Price      float64
	Commission float64
}

// When the current price is momentarily unresolvable, valuation walks back
// at most this many business days before giving up.
const maxValuationLookback = 5

// Account is the portfolio ledger. It owns the cash balance, per-ticker
// positions and order history, and executes orders against the market view
// of the current simulated instant. An order either fully executes or has
// zero effect; there are no partial fills.
//
// An Account is not safe for concurrent use. A run is strictly sequential:
// one tick, one strategy invocation, one order at a time.
type Account struct {
	runID          string
	startMoney     float64
	cash           float64
	commissionRate float64
	commissionPaid float64

	positions map[string]*Position
	history   map[string][]HistoryEntry
	tickers   []string // position creation order, for deterministic iteration

	provider market.Provider
	cache    *market.Cache
	view     *market.View
	date     time.Time
	end      time.Time

	logger  *slog.Logger
	journal journal.Journal
}

// NewAccount creates a ledger with starting cash and a flat commission rate
// in [0, 1], resolving prices through the given provider. Provider responses
// are cached for the account's lifetime.
func NewAccount(cash, commissionRate float64, provider market.Provider) (*Account, error) {
	if provider == nil {
		return nil, fmt.Errorf("nil provider: %w", ErrInvalidConfig)
	}
	if cash < 0 {
		return nil, fmt.Errorf("starting cash %.2f: %w", cash, ErrInvalidConfig)
	}
	if commissionRate < 0 || commissionRate > 1 {
		return nil, fmt.Errorf("commission rate %v outside [0,1]: %w", commissionRate, ErrInvalidConfig)
	}
	cache, err := market.NewCache(market.DefaultCacheCapacity)
	if err != nil {
		return nil, err
	}
	return &Account{
		runID:          id.New(),
		startMoney:     cash,
		cash:           cash,
		commissionRate: commissionRate,
		positions:      make(map[string]*Position),
		history:        make(map[string][]HistoryEntry),
		provider:       provider,
		cache:          cache,
		logger:         slog.Default(),
		journal:        journal.Noop{},
	}, nil
}

// SetLogger replaces the default slog logger.
func (a *Account) SetLogger(l *slog.Logger) { a.logger = l }

// SetJournal installs a journal for orders and end-of-day snapshots. The
// default discards both.
func (a *Account) SetJournal(j journal.Journal) { a.journal = j }

// RunID identifies this account's run in journal records.
func (a *Account) RunID() string { return a.runID }

// FreeMoney returns the uninvested cash balance.
func (a *Account) FreeMoney() float64 { return a.cash }

// StartMoney returns the starting cash balance.
func (a *Account) StartMoney() float64 { return a.startMoney }

func (a *Account) CommissionRate() float64 { return a.commissionRate }

// CommissionPaid returns the cumulative commission charged so far.
func (a *Account) CommissionPaid() float64 { return a.commissionPaid }

// Date returns the current simulated instant. Zero outside a run.
func (a *Account) Date() time.Time { return a.date }

// EndDate returns the run's exclusive end. Zero outside a run.
func (a *Account) EndDate() time.Time { return a.end }

// Market returns the view fixed at the current simulated instant.
func (a *Account) Market() *market.View { return a.view }

// Quantity returns the shares held for ticker, 0 if never traded.
func (a *Account) Quantity(ticker string) int {
	if pos, ok := a.positions[ticker]; ok {
		return pos.Quantity()
	}
	return 0
}

// Position returns the ledger's position for ticker. Positions exist from
// the first accepted buy onward, even at zero quantity.
func (a *Account) Position(ticker string) (*Position, bool) {
	pos, ok := a.positions[ticker]
	return pos, ok
}

// Tickers returns every traded ticker in first-trade order.
func (a *Account) Tickers() []string {
	out := make([]string, len(a.tickers))
	copy(out, a.tickers)
	return out
}

// History returns a ticker's executed orders in execution order.
func (a *Account) History(ticker string) []HistoryEntry {
	entries := a.history[ticker]
	out := make([]HistoryEntry, len(entries))
	copy(out, entries)
	return out
}

// Buy executes a market buy of n shares at the current price. n <= 0 is a
// silent no-op. A buy the balance cannot fund, commission included, is
// rejected in full: the error wraps ErrInsufficientFunds (or a market data
// error) and no state changes.
func (a *Account) Buy(ctx context.Context, ticker string, n int) error {
	if n <= 0 {
		return nil
	}
	price, err := a.view.CurrentPrice(ctx, ticker)
	if err != nil {
		a.logger.Warn("buy rejected, no price",
			slog.String("ticker", ticker), slog.Int("quantity", n), slog.Any("error", err))
		return fmt.Errorf("buy %d %s: %w", n, ticker, err)
	}

	cost := price * float64(n)
	fee := cost * a.commissionRate
	if a.cash < cost+fee {
		a.logger.Warn("buy rejected, insufficient funds",
			slog.String("ticker", ticker), slog.Int("quantity", n),
			slog.Float64("price", price), slog.Float64("cash", a.cash))
		return fmt.Errorf("buy %d %s at %.2f with %.2f cash: %w",
			n, ticker, price, a.cash, ErrInsufficientFunds)
	}

	a.cash -= cost + fee
	a.commissionPaid += fee
	pos, ok := a.positions[ticker]
	if !ok {
		pos = NewPosition(ticker)
		a.positions[ticker] = pos
		a.tickers = append(a.tickers, ticker)
	}
	pos.Buy(price, n)
	a.record(ticker, SideBuy, n, price, fee)
	return nil
}

// Sell executes a market sell of n shares at the current price. n <= 0 is a
// silent no-op. Selling an absent ticker or more shares than are held is
// rejected in full with ErrInsufficientShares; no state changes.
func (a *Account) Sell(ctx context.Context, ticker string, n int) error {
	if n <= 0 {
		return nil
	}
	pos, ok := a.positions[ticker]
	if !ok || pos.Quantity() < n {
		held := 0
		if ok {
			held = pos.Quantity()
		}
		a.logger.Warn("sell rejected, insufficient shares",
			slog.String("ticker", ticker), slog.Int("quantity", n), slog.Int("held", held))
		return fmt.Errorf("sell %d of %d %s: %w", n, held, ticker, ErrInsufficientShares)
	}
	price, err := a.view.CurrentPrice(ctx, ticker)
	if err != nil {
		a.logger.Warn("sell rejected, no price",
			slog.String("ticker", ticker), slog.Int("quantity", n), slog.Any("error", err))
		return fmt.Errorf("sell %d %s: %w", n, ticker, err)
	}

	proceeds := price * float64(n)
	fee := proceeds * a.commissionRate
	if err := pos.Sell(n); err != nil {
		return err
	}
	a.cash += proceeds - fee
	a.commissionPaid += fee
	a.record(ticker, SideSell, n, price, fee)
	return nil
}

// record appends a history entry and forwards it to the journal. The order
// already executed, so a journal failure is logged, not propagated.
func (a *Account) record(ticker string, side Side, n int, price, fee float64) {
	a.history[ticker] = append(a.history[ticker], HistoryEntry{
		Time:       a.date,
		Side:       side,
		Quantity:   n,
		Price:      price,
		Commission: fee,
	})
	err := a.journal.RecordOrder(journal.OrderRecord{
		OrderID:    id.New(),
		RunID:      a.runID,
		Ticker:     ticker,
		Side:       string(side),
		Quantity:   n,
		Price:      price,
		Commission: fee,
		Time:       a.date,
	})
	if err != nil {
		a.logger.Error("journal order failed", slog.String("ticker", ticker), slog.Any("error", err))
	}
}

// TickerCost values one holding at the latest resolvable price, net of the
// commission a liquidation would incur.
func (a *Account) TickerCost(ctx context.Context, ticker string) (float64, error) {
	pos, ok := a.positions[ticker]
	if !ok || pos.Quantity() == 0 {
		return 0, nil
	}
	price, err := a.resolvePrice(ctx, ticker)
	if err != nil {
		return 0, err
	}
	return float64(pos.Quantity()) * price * (1 - a.commissionRate), nil
}

// ActiveMoney returns the total value of held positions.
func (a *Account) ActiveMoney(ctx context.Context) (float64, error) {
	var sum float64
	for _, ticker := range a.tickers {
		v, err := a.TickerCost(ctx, ticker)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum, nil
}

// PortfolioCost returns free cash plus the value of held positions.
func (a *Account) PortfolioCost(ctx context.Context) (float64, error) {
	active, err := a.ActiveMoney(ctx)
	if err != nil {
		return 0, err
	}
	return a.cash + active, nil
}

// resolvePrice returns the current price, walking back one business day at a
// time, pricing at the prior session close, when today's price is missing.
// The walk is bounded; past it the error wraps ErrPriceUnavailable.
func (a *Account) resolvePrice(ctx context.Context, ticker string) (float64, error) {
	price, err := a.view.CurrentPrice(ctx, ticker)
	if err == nil {
		return price, nil
	}
	ts := a.date
	for i := 0; i < maxValuationLookback; i++ {
		ts = calendar.SessionClose(calendar.PrevBusinessDay(ts))
		if price, err = a.view.PriceAt(ctx, ticker, ts); err == nil {
			return price, nil
		}
	}
	return 0, fmt.Errorf("%s after %d business days: %w", ticker, maxValuationLookback, ErrPriceUnavailable)
}

// beginTick pins the account to a new simulated instant and rebuilds the
// market view against the shared cache.
func (a *Account) beginTick(now time.Time) {
	a.date = now
	a.view = market.NewView(now, a.provider, a.cache)
}
