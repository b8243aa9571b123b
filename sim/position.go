package sim

import "fmt"

// Position tracks one ticker's holdings as a FIFO lot ledger: one entry per
// share, per-unit acquisition price, oldest first. Quantity always equals
// the number of lots. A Position persists at zero quantity once created.
type Position struct {
	ticker string
	lots   []float64
}

// NewPosition creates an empty position for a ticker.
func NewPosition(ticker string) *Position {
	return &Position{ticker: ticker}
}

func (p *Position) Ticker() string { return p.ticker }

// Quantity returns the number of shares held.
func (p *Position) Quantity() int { return len(p.lots) }

// Buy records n shares acquired at price.
func (p *Position) Buy(price float64, n int) {
	for i := 0; i < n; i++ {
		p.lots = append(p.lots, price)
	}
}

// Sell removes the n oldest lots, the default broker lot-matching policy.
// Selling more than is held fails with ErrInsufficientShares and changes
// nothing.
func (p *Position) Sell(n int) error {
	if n > len(p.lots) {
		return fmt.Errorf("sell %d of %d %s: %w", n, len(p.lots), p.ticker, ErrInsufficientShares)
	}
	p.lots = p.lots[n:]
	return nil
}

// AverageCost returns the mean acquisition price of the open lots, 0 when
// the position is flat.
func (p *Position) AverageCost() float64 {
	if len(p.lots) == 0 {
		return 0
	}
	var sum float64
	for _, price := range p.lots {
		sum += price
	}
	return sum / float64(len(p.lots))
}
