package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/stocksim/calendar"
	"github.com/rustyeddy/stocksim/journal"
)

// recordingStrategy captures the simulated instant of every invocation.
type recordingStrategy struct {
	ticks []time.Time
	fn    func(ctx context.Context, acct *Account) error
}

func (s *recordingStrategy) OnTick(ctx context.Context, acct *Account) error {
	s.ticks = append(s.ticks, acct.Date())
	if s.fn != nil {
		return s.fn(ctx, acct)
	}
	return nil
}

// testJournal collects records in memory.
type testJournal struct {
	orders []journal.OrderRecord
	snaps  []journal.Snapshot
}

func (j *testJournal) RecordOrder(r journal.OrderRecord) error {
	j.orders = append(j.orders, r)
	return nil
}

func (j *testJournal) RecordSnapshot(s journal.Snapshot) error {
	j.snaps = append(j.snaps, s)
	return nil
}

func (j *testJournal) Close() error { return nil }

func TestRunValidation(t *testing.T) {
	p := newFakeProvider()
	a := newTestAccount(t, 1000, 0, p)
	monday := recentMonday(t)
	ctx := context.Background()

	err := a.Run(ctx, monday, monday, &recordingStrategy{})
	assert.ErrorIs(t, err, ErrInvalidInterval)

	err = a.Run(ctx, monday.AddDate(0, 0, 1), monday, &recordingStrategy{})
	assert.ErrorIs(t, err, ErrInvalidInterval)

	err = a.Run(ctx, monday, monday.AddDate(0, 0, 1), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunTickSequence(t *testing.T) {
	p := newFakeProvider()
	a := newTestAccount(t, 1000, 0, p)
	monday := recentMonday(t)
	strat := &recordingStrategy{}

	require.NoError(t, a.Run(context.Background(), monday, monday.AddDate(0, 0, 2), strat))

	// Two full sessions, hourly from 09:30 through 15:30.
	require.Len(t, strat.ticks, 14)
	assert.Equal(t, calendar.SessionOpen(monday), strat.ticks[0])
	assert.Equal(t, calendar.SessionClose(monday), strat.ticks[6])
	assert.Equal(t, calendar.SessionOpen(monday.AddDate(0, 0, 1)), strat.ticks[7])
	assert.Equal(t, calendar.SessionClose(monday.AddDate(0, 0, 1)), strat.ticks[13])

	for _, ts := range strat.ticks {
		assert.False(t, calendar.IsWeekend(ts))
		assert.Equal(t, 30, ts.Minute())
	}
}

func TestRunEndIsExclusive(t *testing.T) {
	p := newFakeProvider()
	a := newTestAccount(t, 1000, 0, p)
	monday := recentMonday(t)
	end := calendar.SessionOpen(monday.AddDate(0, 0, 1)).Add(150 * time.Minute) // Tuesday 12:00
	strat := &recordingStrategy{}

	require.NoError(t, a.Run(context.Background(), monday, end, strat))

	require.NotEmpty(t, strat.ticks)
	last := strat.ticks[len(strat.ticks)-1]
	assert.Equal(t, calendar.SessionOpen(monday.AddDate(0, 0, 1)).Add(2*time.Hour), last) // Tuesday 11:30
	for _, ts := range strat.ticks {
		assert.True(t, ts.Before(end))
	}
}

func TestRunSkipsEmptySessions(t *testing.T) {
	p := newFakeProvider()
	monday := recentMonday(t)
	tuesday := monday.AddDate(0, 0, 1)
	p.holidays[tuesday.Format(time.DateOnly)] = true

	a := newTestAccount(t, 10_000, 0, p)
	strat := &recordingStrategy{
		fn: func(ctx context.Context, acct *Account) error {
			return acct.Buy(ctx, "X", 1)
		},
	}

	require.NoError(t, a.Run(context.Background(), monday, monday.AddDate(0, 0, 3), strat))

	// Tuesday contributes a single tick: the open where the hole is found.
	var tuesdayTicks []time.Time
	tuesdayIdx := -1
	for i, ts := range strat.ticks {
		if calendar.Midnight(ts).Equal(tuesday) {
			tuesdayTicks = append(tuesdayTicks, ts)
			tuesdayIdx = i
		}
	}
	require.Len(t, tuesdayTicks, 1)
	assert.Equal(t, calendar.SessionOpen(tuesday), tuesdayTicks[0])

	// The skip lands on the following open, not an hour into the session.
	require.Less(t, tuesdayIdx+1, len(strat.ticks))
	assert.Equal(t, calendar.SessionOpen(tuesday.AddDate(0, 0, 1)), strat.ticks[tuesdayIdx+1])

	// No Tuesday orders made it into the history.
	for _, e := range a.History("X") {
		assert.False(t, calendar.Midnight(e.Time).Equal(tuesday))
	}

	// Monday and Wednesday ran in full.
	assert.Len(t, strat.ticks, 15)
}

func TestRunSkipsConsecutiveHolidays(t *testing.T) {
	p := newFakeProvider()
	monday := recentMonday(t)
	p.holidays[monday.AddDate(0, 0, 1).Format(time.DateOnly)] = true
	p.holidays[monday.AddDate(0, 0, 2).Format(time.DateOnly)] = true

	a := newTestAccount(t, 10_000, 0, p)
	strat := &recordingStrategy{
		fn: func(ctx context.Context, acct *Account) error {
			return acct.Buy(ctx, "X", 1)
		},
	}

	require.NoError(t, a.Run(context.Background(), monday, monday.AddDate(0, 0, 4), strat))

	// Monday in full, one opening tick per dark day, Thursday in full
	// from its open.
	require.Len(t, strat.ticks, 16)
	thursday := monday.AddDate(0, 0, 3)
	assert.Equal(t, calendar.SessionOpen(monday.AddDate(0, 0, 1)), strat.ticks[7])
	assert.Equal(t, calendar.SessionOpen(monday.AddDate(0, 0, 2)), strat.ticks[8])
	assert.Equal(t, calendar.SessionOpen(thursday), strat.ticks[9])
	assert.Equal(t, calendar.SessionClose(thursday), strat.ticks[15])
}

func TestRunAbortsOnStrategyError(t *testing.T) {
	p := newFakeProvider()
	a := newTestAccount(t, 1000, 0, p)
	monday := recentMonday(t)
	boom := errors.New("boom")
	strat := &recordingStrategy{
		fn: func(context.Context, *Account) error { return boom },
	}

	err := a.Run(context.Background(), monday, monday.AddDate(0, 0, 2), strat)
	require.ErrorIs(t, err, boom)
	assert.Len(t, strat.ticks, 1)
}

func TestRunRecordsSessionCloseSnapshots(t *testing.T) {
	p := newFakeProvider()
	monday := recentMonday(t)
	p.setPrice(calendar.SessionOpen(monday), 100)

	a := newTestAccount(t, 1000, 0, p)
	j := &testJournal{}
	a.SetJournal(j)

	strat := &recordingStrategy{
		fn: func(ctx context.Context, acct *Account) error {
			if acct.Quantity("X") == 0 {
				return acct.Buy(ctx, "X", 2)
			}
			return nil
		},
	}

	require.NoError(t, a.Run(context.Background(), monday, monday.AddDate(0, 0, 2), strat))

	require.Len(t, j.snaps, 2)
	for _, s := range j.snaps {
		assert.Equal(t, a.RunID(), s.RunID)
		assert.True(t, calendar.IsSessionClose(s.Time))
		assert.InDelta(t, s.FreeMoney+s.ActiveMoney, s.PortfolioCost, 1e-9)
	}
	assert.Equal(t, calendar.SessionClose(monday), j.snaps[0].Time)
	assert.InDelta(t, 200.0, j.snaps[0].ActiveMoney, 1e-9)
}

func TestStrategyOrdersAffectLedger(t *testing.T) {
	p := newFakeProvider()
	monday := recentMonday(t)
	p.setPrice(calendar.SessionOpen(monday), 50)

	a := newTestAccount(t, 1000, 0, p)
	strat := &recordingStrategy{
		fn: func(ctx context.Context, acct *Account) error {
			if acct.Quantity("X") == 0 {
				return acct.Buy(ctx, "X", 4)
			}
			return nil
		},
	}

	require.NoError(t, a.Run(context.Background(), monday, monday.AddDate(0, 0, 1), strat))

	assert.Equal(t, 4, a.Quantity("X"))
	assert.InDelta(t, 800.0, a.FreeMoney(), 1e-9)
	require.Len(t, a.History("X"), 1)
	assert.Equal(t, calendar.SessionOpen(monday), a.History("X")[0].Time)
}
