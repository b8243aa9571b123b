package market

import "errors"

// Data-layer failure kinds. Every error a View returns wraps exactly one of
// these so callers can branch with errors.Is; the run loop treats
// ErrEmptyData specially (whole-day skip).
var (
	// ErrFuturePeriod means the requested range reaches past the view's
	// "as of" instant.
	ErrFuturePeriod = errors.New("requested period is in the future")

	// ErrInvalidRange means the range's start is after its end.
	ErrInvalidRange = errors.New("start date is after end date")

	// ErrIntervalUnavailable means the provider no longer serves the
	// requested interval for data that old.
	ErrIntervalUnavailable = errors.New("interval not available for data this old")

	// ErrEmptyData means the provider has no bars for the range, e.g. an
	// exchange holiday.
	ErrEmptyData = errors.New("no data for requested period")
)
