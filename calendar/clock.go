package calendar

import "time"

// Clock is the simulated trading clock. Every instant it produces is
// minute-aligned to the hourly stepping grid (09:30, 10:30, ... 15:30) on a
// weekday; it never yields an after-hours or weekend timestamp. The engine
// owns a single Clock per run and all simulation dates come from it.
type Clock struct {
	now time.Time
}

// NewClock starts a clock at the given instant, reinterpreted in the
// exchange time zone. The start itself need not be a valid trading instant;
// the first Tick normalizes it.
func NewClock(start time.Time) *Clock {
	return &Clock{now: Localize(start)}
}

// Now returns the clock's current instant.
func (c *Clock) Now() time.Time { return c.now }

// Tick advances to the next valid trading instant and returns it.
//
// Rules, in order:
//  1. weekend, or Friday at the close: jump to Monday 09:30
//  2. at the close or past 16:00: jump to the next weekday 09:30
//  3. before the open: snap to 09:30 the same day
//  4. otherwise advance one hour
func (c *Clock) Tick() time.Time {
	t := c.now
	switch {
	case IsWeekend(t) || (t.Weekday() == time.Friday && atClose(t)):
		t = SessionOpen(nextMonday(t))
	case atClose(t) || t.Hour() >= EndHour:
		// A Friday evening start lands here; rolling through the
		// weekend keeps the no-weekend-instant guarantee.
		t = NextSessionOpen(t)
	case beforeOpen(t):
		t = SessionOpen(t)
	default:
		t = t.Add(time.Hour)
	}
	c.now = t
	return t
}

// SkipDay jumps to the next business day's open, abandoning whatever is left
// of the current session. The engine uses this when a whole session turns
// out to have no data (exchange holiday).
func (c *Clock) SkipDay() time.Time {
	c.now = NextSessionOpen(c.now)
	return c.now
}

func nextMonday(t time.Time) time.Time {
	days := (8 - int(t.In(exchange).Weekday())) % 7
	if days == 0 {
		days = 7
	}
	return Midnight(t).AddDate(0, 0, days)
}
