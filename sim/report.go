package sim

import (
	"context"
	"fmt"
	"io"
)

// WriteReport writes the human-readable portfolio summary: total cost, free
// cash, active money, holdings, and the full operation history. The format
// is for people, not parsers.
func (a *Account) WriteReport(ctx context.Context, w io.Writer) error {
	active, err := a.ActiveMoney(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "portfolio costs %.2f = %.2f free money left + %.2f stocks cost in total\n",
		a.cash+active, a.cash, active)
	fmt.Fprintln(w, "  portfolio:")
	a.WriteHoldings(w)
	fmt.Fprintln(w, "  history:")
	a.WriteHistory(w)
	return nil
}

// WriteHoldings lists non-zero positions in first-trade order.
func (a *Account) WriteHoldings(w io.Writer) {
	any := false
	for _, ticker := range a.tickers {
		if n := a.positions[ticker].Quantity(); n != 0 {
			fmt.Fprintf(w, "%s: %d\n", ticker, n)
			any = true
		}
	}
	if !any {
		fmt.Fprintln(w, "no stocks")
	}
}

// WriteHistory lists every ticker's operation history in first-trade order.
func (a *Account) WriteHistory(w io.Writer) {
	if len(a.tickers) == 0 {
		fmt.Fprintln(w, "no history")
		return
	}
	for _, ticker := range a.tickers {
		a.WriteTickerHistory(w, ticker)
	}
}

// WriteTickerHistory lists one ticker's executed orders in execution order.
func (a *Account) WriteTickerHistory(w io.Writer, ticker string) {
	fmt.Fprintf(w, "%s:\n", ticker)
	for _, e := range a.history[ticker] {
		fmt.Fprintf(w, "%s: %s %d stock(s) for %.2f each (commission %.2f)\n",
			e.Time.Format("2006-01-02 15:04"), e.Side, e.Quantity, e.Price, e.Commission)
	}
}
