// Package journal persists what a simulation run did: every executed order
// and an end-of-day portfolio snapshot. The engine writes through the
// Journal interface; CSV and SQLite implementations are provided, plus a
// no-op for runs that keep nothing.
package journal

import "time"

// OrderRecord is one executed simulator order.
type OrderRecord struct {
	OrderID    string
	RunID      string
	Ticker     string
	Side       string // "buy" or "sell"
	Quantity   int
	Price      float64
	Commission float64
	Time       time.Time
}

// Snapshot captures portfolio state at a session close.
type Snapshot struct {
	RunID         string
	Time          time.Time
	FreeMoney     float64
	ActiveMoney   float64
	PortfolioCost float64
}

type Journal interface {
	RecordOrder(OrderRecord) error
	RecordSnapshot(Snapshot) error
	Close() error
}

// Noop discards everything. It is the engine's default journal.
type Noop struct{}

func (Noop) RecordOrder(OrderRecord) error { return nil }
func (Noop) RecordSnapshot(Snapshot) error { return nil }
func (Noop) Close() error                  { return nil }
