// Package calendar owns the simulated trading calendar: exchange session
// hours, business-day arithmetic, and the clock that steps a backtest from
// one valid trading instant to the next. No other package derives market
// hours on its own.
package calendar

import (
	"time"
	_ "time/tzdata"
)

// NYSE regular session, exchange-local time. The last hourly instant the
// clock produces is the 15:30 close; 16:00 and later is after hours.
const (
	OpenHour    = 9
	OpenMinute  = 30
	CloseHour   = 15
	CloseMinute = 30
	EndHour     = 16
)

var exchange = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Exchange returns the exchange-local time zone.
func Exchange() *time.Location { return exchange }

// Localize reinterprets t's wall-clock reading in the exchange time zone.
func Localize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, exchange)
}

// Midnight returns the start of t's calendar day in the exchange zone.
func Midnight(t time.Time) time.Time {
	t = t.In(exchange)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, exchange)
}

// SessionOpen returns 09:30 on t's calendar day.
func SessionOpen(t time.Time) time.Time {
	t = t.In(exchange)
	return time.Date(t.Year(), t.Month(), t.Day(), OpenHour, OpenMinute, 0, 0, exchange)
}

// SessionClose returns 15:30 on t's calendar day.
func SessionClose(t time.Time) time.Time {
	t = t.In(exchange)
	return time.Date(t.Year(), t.Month(), t.Day(), CloseHour, CloseMinute, 0, 0, exchange)
}

// IsSessionClose reports whether t reads exactly 15:30.
func IsSessionClose(t time.Time) bool {
	return atClose(t.In(exchange))
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.In(exchange).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsBusinessDay reports whether t falls on a weekday. Exchange holidays are
// not modeled here; they surface as empty data from the provider.
func IsBusinessDay(t time.Time) bool { return !IsWeekend(t) }

// NextBusinessDay returns the first weekday strictly after t's day.
func NextBusinessDay(t time.Time) time.Time {
	d := Midnight(t).AddDate(0, 0, 1)
	for IsWeekend(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// PrevBusinessDay returns the last weekday strictly before t's day.
func PrevBusinessDay(t time.Time) time.Time {
	d := Midnight(t).AddDate(0, 0, -1)
	for IsWeekend(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// NextSessionOpen returns 09:30 on the first business day after t's day.
func NextSessionOpen(t time.Time) time.Time {
	return SessionOpen(NextBusinessDay(t))
}

func atClose(t time.Time) bool {
	return t.Hour() == CloseHour && t.Minute() == CloseMinute
}

func beforeOpen(t time.Time) bool {
	return t.Hour() < OpenHour || (t.Hour() == OpenHour && t.Minute() < OpenMinute)
}
