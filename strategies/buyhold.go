package strategies

import (
	"context"
	"errors"

	"github.com/rustyeddy/stocksim/sim"
)

// BuyHold buys a fixed quantity of one ticker on the first tick it can and
// holds it for the rest of the run.
type BuyHold struct {
	Ticker   string
	Quantity int

	bought bool
}

func (s *BuyHold) OnTick(ctx context.Context, acct *sim.Account) error {
	if s.bought {
		return nil
	}
	if err := acct.Buy(ctx, s.Ticker, s.Quantity); err != nil {
		// A rejected order just tries again next tick; data errors go
		// up so the engine can skip holiday sessions.
		if errors.Is(err, sim.ErrInsufficientFunds) {
			return nil
		}
		return err
	}
	s.bought = true
	return nil
}
