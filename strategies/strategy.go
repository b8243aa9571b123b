// Package strategies hosts sim.Strategy implementations and a registry for
// looking them up by name. Trading logic itself stays out of the engine;
// a strategy is just a value passed to Account.Run.
package strategies

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/stocksim/sim"
)

var registry = make(map[string]sim.Strategy)

// Register adds a strategy under a name for ByName lookup.
func Register(name string, strat sim.Strategy) {
	registry[name] = strat
}

// Get returns a registered strategy, or nil when the name is unknown.
func Get(name string) sim.Strategy {
	return registry[name]
}

// ByName builds one of the built-in strategies. ticker and qty parameterize
// the strategies that trade.
func ByName(name, ticker string, qty int) (sim.Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "buy-hold", "buyhold":
		return &BuyHold{Ticker: ticker, Quantity: qty}, nil

	default:
		if strat := Get(name); strat != nil {
			return strat, nil
		}
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, buy-hold)", name)
	}
}
