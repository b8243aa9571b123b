package market

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/stocksim/calendar"
)

// View resolves prices for one simulated instant. It refuses any request
// reaching past its "as of" date, so a strategy can never peek ahead of the
// clock. The engine rebuilds the View every tick; the cache is shared across
// views for the life of the run.
type View struct {
	asOf     time.Time
	provider Provider
	cache    *Cache

	// now anchors data-age checks: providers retain fine intervals
	// relative to real time, not simulated time.
	now func() time.Time
}

// NewView creates a view fixed at asOf. A nil cache gets a private one with
// the default capacity.
func NewView(asOf time.Time, p Provider, c *Cache) *View {
	if c == nil {
		c, _ = NewCache(DefaultCacheCapacity)
	}
	return &View{asOf: asOf, provider: p, cache: c, now: time.Now}
}

// AsOf returns the instant this view is fixed at.
func (v *View) AsOf() time.Time { return v.asOf }

// GetBars returns the bar series for [start, end] at the given interval.
// The returned error wraps ErrFuturePeriod, ErrInvalidRange,
// ErrIntervalUnavailable or ErrEmptyData.
func (v *View) GetBars(ctx context.Context, ticker string, start, end time.Time, iv Interval) (Series, error) {
	if end.After(v.asOf) {
		return nil, fmt.Errorf("%s %s ends %s, view is at %s: %w",
			ticker, iv, end.Format(time.DateOnly), v.asOf.Format(time.DateOnly), ErrFuturePeriod)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%s %s to %s: %w",
			ticker, start.Format(time.DateOnly), end.Format(time.DateOnly), ErrInvalidRange)
	}
	if !iv.Valid() {
		return nil, fmt.Errorf("%s: unknown interval %q: %w", ticker, iv, ErrIntervalUnavailable)
	}
	if age := v.now().Sub(start); !iv.AvailableAt(age) {
		return nil, fmt.Errorf("%s %s at age %dd: %w",
			ticker, iv, int(v.now().Sub(start).Hours()/24), ErrIntervalUnavailable)
	}

	raw, err := v.fetch(ctx, ticker, iv, start, end)
	if err != nil {
		return nil, err
	}
	out := raw.Slice(start, end)
	if out.Empty() {
		return nil, fmt.Errorf("%s %s %s to %s: %w",
			ticker, iv, start.Format(time.DateOnly), end.Format(time.DateOnly), ErrEmptyData)
	}
	return out, nil
}

// DayPrice returns one OHLC field of the prior business day's daily bar.
// Strategies acting on "yesterday's" high or low read it from here.
func (v *View) DayPrice(ctx context.Context, ticker string, date time.Time, f Field) (float64, error) {
	day := calendar.PrevBusinessDay(date)
	series, err := v.GetBars(ctx, ticker, day, day.AddDate(0, 0, 1), Day1)
	if err != nil {
		return 0, err
	}
	bar := series.First()
	if b, ok := series.At(day); ok {
		bar = b
	}
	val, ok := bar.Price(f)
	if !ok {
		return 0, fmt.Errorf("unknown price field %q", f)
	}
	return val, nil
}

// PriceAt resolves the execution price for ts: the open of the bar at ts in
// the finest intraday series still served for data that old. When the exact
// instant is missing (partial session, early close) the last bar at or
// before ts stands in.
func (v *View) PriceAt(ctx context.Context, ticker string, ts time.Time) (float64, error) {
	if ts.After(v.asOf) {
		return 0, fmt.Errorf("%s at %s, view is at %s: %w",
			ticker, ts.Format(time.DateTime), v.asOf.Format(time.DateTime), ErrFuturePeriod)
	}
	iv, ok := FinestIntraday(v.now().Sub(ts))
	if !ok {
		return 0, fmt.Errorf("%s at %s: no intraday data: %w",
			ticker, ts.Format(time.DateOnly), ErrIntervalUnavailable)
	}
	series, err := v.GetBars(ctx, ticker, calendar.Midnight(ts), ts, iv)
	if err != nil {
		return 0, err
	}
	bar, ok := series.At(ts)
	if !ok {
		bar, _ = series.LastAtOrBefore(ts)
	}
	return bar.Open, nil
}

// CurrentPrice resolves the execution price at the view's own instant.
func (v *View) CurrentPrice(ctx context.Context, ticker string) (float64, error) {
	return v.PriceAt(ctx, ticker, v.asOf)
}

// fetch serves raw payloads from the cache, falling through to the provider
// on a miss. Payloads are cached whole; callers slice afterwards.
func (v *View) fetch(ctx context.Context, ticker string, iv Interval, start, end time.Time) (Series, error) {
	if s, ok := v.cache.Get(ticker, iv, start, end); ok {
		return s, nil
	}
	s, err := v.provider.Fetch(ctx, ticker, iv, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", ticker, iv, err)
	}
	if !s.Empty() {
		v.cache.Put(ticker, iv, start, end, s)
	}
	return s, nil
}
