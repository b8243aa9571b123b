package strategies

import (
	"context"

	"github.com/rustyeddy/stocksim/sim"
)

// Noop does nothing every tick. Useful as a baseline and in tests.
type Noop struct{}

func (Noop) OnTick(ctx context.Context, acct *sim.Account) error {
	return nil
}
