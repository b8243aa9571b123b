package market

import (
	"context"
	"time"
)

// Provider supplies historical bars for a ticker at an interval.
//
// Implementations must return bars ordered ascending by start time, restricted
// to [start, end], and an error wrapping ErrEmptyData when nothing exists for
// the parameters. Fetches are synchronous; the engine issues at most one at a
// time within a run.
type Provider interface {
	Fetch(ctx context.Context, ticker string, interval Interval, start, end time.Time) (Series, error)
}
