// Package market resolves historical prices for the simulator. A View is
// scoped to a fixed "as of" instant and refuses to look past it; bars come
// from a Provider and are memoized in a bounded cache.
package market

import "time"

// Bar is one OHLC sample for a ticker over one interval. Volume is zero when
// the provider does not report it.
type Bar struct {
	Start  time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Field selects one price component of a Bar.
type Field string

const (
	FieldOpen  Field = "open"
	FieldHigh  Field = "high"
	FieldLow   Field = "low"
	FieldClose Field = "close"
)

// Price returns the bar's value for the field. ok is false for an unknown
// field name.
func (b Bar) Price(f Field) (v float64, ok bool) {
	switch f {
	case FieldOpen:
		return b.Open, true
	case FieldHigh:
		return b.High, true
	case FieldLow:
		return b.Low, true
	case FieldClose:
		return b.Close, true
	}
	return 0, false
}

// Series is an ordered run of bars, ascending by start time.
type Series []Bar

func (s Series) Empty() bool { return len(s) == 0 }

// First returns the earliest bar. Callers must check Empty first.
func (s Series) First() Bar { return s[0] }

// Last returns the latest bar. Callers must check Empty first.
func (s Series) Last() Bar { return s[len(s)-1] }

// Slice returns the bars whose start time lies in [start, end].
func (s Series) Slice(start, end time.Time) Series {
	var out Series
	for _, b := range s {
		if b.Start.Before(start) || b.Start.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// At returns the bar starting exactly at ts.
func (s Series) At(ts time.Time) (Bar, bool) {
	for _, b := range s {
		if b.Start.Equal(ts) {
			return b, true
		}
	}
	return Bar{}, false
}

// LastAtOrBefore returns the latest bar starting at or before ts. Used to
// price partial sessions (early closes) where the exact instant is missing.
func (s Series) LastAtOrBefore(ts time.Time) (Bar, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if !s[i].Start.After(ts) {
			return s[i], true
		}
	}
	return Bar{}, false
}
