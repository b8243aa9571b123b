package market

import "time"

// Interval identifies a bar sampling interval, in the provider's notation.
type Interval string

const (
	Min1   Interval = "1m"
	Min2   Interval = "2m"
	Min5   Interval = "5m"
	Min15  Interval = "15m"
	Min30  Interval = "30m"
	Min90  Interval = "90m"
	Hour1  Interval = "1h"
	Day1   Interval = "1d"
	Day5   Interval = "5d"
	Week1  Interval = "1wk"
	Month1 Interval = "1mo"
	Month3 Interval = "3mo"
)

// Provider retention windows by data age. Finer intervals age out first;
// daily and coarser never do.
const (
	minuteMaxAge   = 30 * 24 * time.Hour
	intradayMaxAge = 60 * 24 * time.Hour
	hourlyMaxAge   = 730 * 24 * time.Hour
)

// Valid reports whether iv is one of the provider's known intervals.
func (iv Interval) Valid() bool {
	switch iv {
	case Min1, Min2, Min5, Min15, Min30, Min90, Hour1, Day1, Day5, Week1, Month1, Month3:
		return true
	}
	return false
}

// AvailableAt reports whether the provider still serves iv for data of the
// given age.
func (iv Interval) AvailableAt(age time.Duration) bool {
	switch iv {
	case Min1:
		return age < minuteMaxAge
	case Min2, Min5, Min15, Min30, Min90:
		return age < intradayMaxAge
	case Hour1:
		return age < hourlyMaxAge
	}
	return true
}

// FinestIntraday returns the finest intraday interval still served for data
// of the given age. ok is false once even hourly bars have aged out, at
// which point only daily and coarser data exist.
func FinestIntraday(age time.Duration) (Interval, bool) {
	switch {
	case age < intradayMaxAge:
		return Min30, true
	case age < hourlyMaxAge:
		return Hour1, true
	}
	return "", false
}
