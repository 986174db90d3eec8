package domain

import (
	"math"
	"sort"
	"time"
)

// Series is an immutable, strictly date-ordered run of daily bars for one
// instrument. Construction cleans the input the same way every consumer
// expects it: bars are sorted by timestamp, rows with missing or non-finite
// price fields are dropped, and duplicate dates are collapsed (last write
// wins, matching the bar cache merge rule). After construction the series is
// read-only; pipeline stages derive new structures from it rather than
// mutating it.
type Series struct {
	symbol string
	bars   []Bar
}

// NewSeries builds a cleaned Series from raw bars. The input slice is not
// retained or modified.
func NewSeries(symbol string, bars []Bar) *Series {
	cleaned := make([]Bar, 0, len(bars))
	for _, b := range bars {
		if !usable(b) {
			continue
		}
		cleaned = append(cleaned, b)
	}

	sort.SliceStable(cleaned, func(i, j int) bool {
		return cleaned[i].Timestamp.Before(cleaned[j].Timestamp)
	})

	// Collapse duplicate dates, keeping the later entry.
	deduped := cleaned[:0]
	for _, b := range cleaned {
		if n := len(deduped); n > 0 && sameDay(deduped[n-1].Timestamp, b.Timestamp) {
			deduped[n-1] = b
			continue
		}
		deduped = append(deduped, b)
	}

	return &Series{symbol: symbol, bars: deduped}
}

// usable reports whether a bar has all price fields present and finite.
// Zero or negative prices mean the upstream row was incomplete.
func usable(b Bar) bool {
	if b.Timestamp.IsZero() {
		return false
	}
	for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.Volume >= 0
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Symbol returns the instrument symbol.
func (s *Series) Symbol() string { return s.symbol }

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.bars) }

// Bar returns the bar at index i.
func (s *Series) Bar(i int) Bar { return s.bars[i] }

// Closes returns a copy of the close prices in date order.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Close
	}
	return out
}

// Dates returns a copy of the bar timestamps in date order.
func (s *Series) Dates() []time.Time {
	out := make([]time.Time, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Timestamp
	}
	return out
}
