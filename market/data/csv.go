// Package data provides offline bar sources for the simulator: a
// filesystem-backed Provider reading CSV bar files, and a Fetcher that
// downloads compressed archives into that layout.
package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rustyeddy/stocksim/calendar"
	"github.com/rustyeddy/stocksim/market"
)

// CSVProvider serves bars from <dir>/<TICKER>/<interval>.csv files. Each
// file has a header row and records of the form
//
//	time,open,high,low,close,volume
//
// with RFC 3339, "2006-01-02 15:04" or "2006-01-02" timestamps, the latter
// two read in exchange-local time. Files are parsed once and held for the
// provider's lifetime.
type CSVProvider struct {
	dir string

	mu    sync.Mutex
	files map[string]market.Series
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

// NewCSVProvider creates a provider rooted at dir.
func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{dir: dir, files: make(map[string]market.Series)}
}

// Fetch implements market.Provider.
func (p *CSVProvider) Fetch(_ context.Context, ticker string, iv market.Interval, start, end time.Time) (market.Series, error) {
	series, err := p.load(ticker, iv)
	if err != nil {
		return nil, err
	}
	out := series.Slice(start, end)
	if out.Empty() {
		return nil, fmt.Errorf("%s %s %s to %s: %w",
			ticker, iv, start.Format(time.DateOnly), end.Format(time.DateOnly), market.ErrEmptyData)
	}
	return out, nil
}

func (p *CSVProvider) load(ticker string, iv market.Interval) (market.Series, error) {
	path := filepath.Join(p.dir, ticker, string(iv)+".csv")

	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.files[path]; ok {
		return s, nil
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s %s: no data file: %w", ticker, iv, market.ErrEmptyData)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := readBars(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	p.files[path] = s
	return s, nil
}

func readBars(r io.Reader) (market.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var out market.Series
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 {
			// header
			continue
		}
		if len(rec) < 5 {
			return nil, fmt.Errorf("line %d: want at least 5 fields, got %d", line, len(rec))
		}

		ts, err := parseTime(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		b := market.Bar{Start: ts}
		for i, dst := range []*float64{&b.Open, &b.High, &b.Low, &b.Close} {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d field %d: %w", line, i+2, err)
			}
			*dst = v
		}
		if len(rec) > 5 && rec[5] != "" {
			v, err := strconv.ParseFloat(rec[5], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d volume: %w", line, err)
			}
			b.Volume = v
		}
		out = append(out, b)
	}
	return out, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, s); err == nil {
				return t.In(calendar.Exchange()), nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, calendar.Exchange()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
