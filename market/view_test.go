package market

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/stocksim/calendar"
)

// Age checks are anchored to a fixed "now" so the tests can use fixed
// simulation dates. 2024-01-08 is a Monday.
var testNow = time.Date(2024, time.February, 1, 12, 0, 0, 0, calendar.Exchange())

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, calendar.Exchange())
}

func instant(d, h, min int) time.Time {
	return time.Date(2024, time.January, d, h, min, 0, 0, calendar.Exchange())
}

// fakeProvider fabricates flat-price bars for weekday sessions, with
// per-instant price overrides, whole-day holidays and early closes.
type fakeProvider struct {
	calls      int
	base       float64
	overrides  map[string]float64 // "2006-01-02 15:04" -> price
	holidays   map[string]bool    // "2006-01-02"
	earlyClose map[string]int     // "2006-01-02" -> last session hour
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		base:       100,
		overrides:  make(map[string]float64),
		holidays:   make(map[string]bool),
		earlyClose: make(map[string]int),
	}
}

func (p *fakeProvider) bar(t time.Time) Bar {
	price := p.base
	if v, ok := p.overrides[t.Format("2006-01-02 15:04")]; ok {
		price = v
	}
	return Bar{Start: t, Open: price, High: price + 1, Low: price - 1, Close: price}
}

func (p *fakeProvider) Fetch(_ context.Context, ticker string, iv Interval, start, end time.Time) (Series, error) {
	p.calls++

	step := 30 * time.Minute
	if iv == Hour1 {
		step = time.Hour
	}

	var out Series
	for d := calendar.Midnight(start); !d.After(end); d = calendar.Midnight(d.AddDate(0, 0, 1)) {
		if calendar.IsWeekend(d) || p.holidays[d.Format(time.DateOnly)] {
			continue
		}
		if iv == Day1 {
			if !d.Before(start) {
				out = append(out, p.bar(d))
			}
			continue
		}
		last := calendar.SessionClose(d)
		if h, ok := p.earlyClose[d.Format(time.DateOnly)]; ok {
			last = time.Date(d.Year(), d.Month(), d.Day(), h, 0, 0, 0, calendar.Exchange())
		}
		for t := calendar.SessionOpen(d); !t.After(last) && !t.After(end); t = t.Add(step) {
			if t.Before(start) {
				continue
			}
			out = append(out, p.bar(t))
		}
	}
	if out.Empty() {
		return nil, fmt.Errorf("fake %s %s: %w", ticker, iv, ErrEmptyData)
	}
	return out, nil
}

func newTestView(t *testing.T, asOf time.Time, p Provider) *View {
	t.Helper()
	v := NewView(asOf, p, nil)
	v.now = func() time.Time { return testNow }
	return v
}

func TestGetBarsFuturePeriod(t *testing.T) {
	v := newTestView(t, instant(10, 15, 30), newFakeProvider())

	_, err := v.GetBars(context.Background(), "AAPL", day(8), day(11), Day1)
	assert.ErrorIs(t, err, ErrFuturePeriod)

	// Future end wins regardless of start ordering or interval.
	_, err = v.GetBars(context.Background(), "AAPL", day(12), day(11), Min1)
	assert.ErrorIs(t, err, ErrFuturePeriod)
}

func TestGetBarsInvalidRange(t *testing.T) {
	v := newTestView(t, instant(10, 15, 30), newFakeProvider())

	_, err := v.GetBars(context.Background(), "AAPL", day(9), day(8), Day1)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestGetBarsIntervalUnavailable(t *testing.T) {
	v := newTestView(t, instant(10, 15, 30), newFakeProvider())
	ctx := context.Background()

	// Minute data ages out after 30 days; early December is too old.
	start := testNow.AddDate(0, 0, -40)
	_, err := v.GetBars(ctx, "AAPL", start, start.AddDate(0, 0, 1), Min1)
	require.ErrorIs(t, err, ErrIntervalUnavailable)

	// As is hourly beyond two years.
	old := testNow.AddDate(-3, 0, 0)
	_, err = v.GetBars(ctx, "AAPL", old, old.AddDate(0, 0, 1), Hour1)
	require.ErrorIs(t, err, ErrIntervalUnavailable)

	_, err = v.GetBars(ctx, "AAPL", day(8), day(9), Interval("7m"))
	assert.ErrorIs(t, err, ErrIntervalUnavailable)
}

func TestGetBarsEmptyData(t *testing.T) {
	p := newFakeProvider()
	p.holidays["2024-01-08"] = true
	v := newTestView(t, instant(10, 15, 30), p)

	_, err := v.GetBars(context.Background(), "AAPL", day(8), day(9).Add(-time.Minute), Day1)
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestGetBarsSlicesToRange(t *testing.T) {
	v := newTestView(t, instant(31, 15, 30), newFakeProvider())

	series, err := v.GetBars(context.Background(), "AAPL", day(8), day(12), Day1)
	require.NoError(t, err)
	require.Len(t, series, 5) // Monday through Friday
	assert.Equal(t, day(8), series.First().Start)
	assert.Equal(t, day(12), series.Last().Start)
}

func TestGetBarsCachesProviderPayload(t *testing.T) {
	p := newFakeProvider()
	v := newTestView(t, instant(31, 15, 30), p)
	ctx := context.Background()

	_, err := v.GetBars(ctx, "AAPL", day(8), day(12), Day1)
	require.NoError(t, err)
	require.Equal(t, 1, p.calls)

	// Same range hits the cache.
	_, err = v.GetBars(ctx, "AAPL", day(8), day(12), Day1)
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)

	// A narrower range is covered by the cached payload and sliced after
	// retrieval.
	series, err := v.GetBars(ctx, "AAPL", day(9), day(10), Day1)
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)
	require.Len(t, series, 2)
	assert.Equal(t, day(9), series.First().Start)

	// A different interval misses.
	_, err = v.GetBars(ctx, "AAPL", instant(9, 9, 30), instant(9, 15, 30), Hour1)
	require.NoError(t, err)
	assert.Equal(t, 2, p.calls)
}

func TestDayPriceLooksOneBusinessDayBack(t *testing.T) {
	p := newFakeProvider()
	p.overrides["2024-01-05 00:00"] = 95 // Friday's daily bar
	v := newTestView(t, instant(8, 10, 30), p)

	// Monday resolves Friday's session.
	got, err := v.DayPrice(context.Background(), "AAPL", instant(8, 10, 30), FieldOpen)
	require.NoError(t, err)
	assert.Equal(t, 95.0, got)

	high, err := v.DayPrice(context.Background(), "AAPL", instant(8, 10, 30), FieldHigh)
	require.NoError(t, err)
	assert.Equal(t, 96.0, high)

	_, err = v.DayPrice(context.Background(), "AAPL", instant(8, 10, 30), Field("vwap"))
	assert.Error(t, err)
}

func TestDayPriceEmptyOnHoliday(t *testing.T) {
	p := newFakeProvider()
	p.holidays["2024-01-05"] = true
	v := newTestView(t, instant(8, 10, 30), p)

	_, err := v.DayPrice(context.Background(), "AAPL", instant(8, 10, 30), FieldClose)
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestPriceAtResolvesBarOpen(t *testing.T) {
	p := newFakeProvider()
	p.overrides["2024-01-08 11:30"] = 102
	v := newTestView(t, instant(8, 15, 30), p)

	got, err := v.PriceAt(context.Background(), "AAPL", instant(8, 11, 30))
	require.NoError(t, err)
	assert.Equal(t, 102.0, got)
}

func TestPriceAtFallsBackOnPartialDay(t *testing.T) {
	p := newFakeProvider()
	p.earlyClose["2024-01-08"] = 12 // bars stop at noon
	p.overrides["2024-01-08 12:00"] = 104
	v := newTestView(t, instant(8, 15, 30), p)

	got, err := v.PriceAt(context.Background(), "AAPL", instant(8, 14, 30))
	require.NoError(t, err)
	assert.Equal(t, 104.0, got)
}

func TestPriceAtFuturePeriod(t *testing.T) {
	v := newTestView(t, instant(8, 11, 30), newFakeProvider())

	_, err := v.PriceAt(context.Background(), "AAPL", instant(8, 12, 30))
	assert.ErrorIs(t, err, ErrFuturePeriod)
}

func TestPriceAtTooOldForIntraday(t *testing.T) {
	old := calendar.SessionClose(testNow.AddDate(-3, 0, 0))
	v := newTestView(t, old, newFakeProvider())

	_, err := v.PriceAt(context.Background(), "AAPL", old)
	assert.ErrorIs(t, err, ErrIntervalUnavailable)
}

func TestCurrentPriceUsesAsOf(t *testing.T) {
	p := newFakeProvider()
	p.overrides["2024-01-08 13:30"] = 107
	v := newTestView(t, instant(8, 13, 30), p)

	got, err := v.CurrentPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 107.0, got)
}
