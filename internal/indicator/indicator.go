// Package indicator computes per-bar derived values (moving averages,
// relative-strength index) from a cleaned price series. All indicators are
// batch computations over the full series; entries inside the warm-up window
// are NaN until Trim removes them.
package indicator

import (
	"math"
	"time"

	"quantlab/internal/domain"
)

// Config holds the window lengths for the indicator set.
type Config struct {
	FastWindow int // fast SMA window, default 10
	SlowWindow int // slow SMA window, default 50
	RSIPeriod  int // RSI lookback, default 14
}

// DefaultConfig returns the standard 10/50 SMA crossover windows with a
// 14-period RSI.
func DefaultConfig() Config {
	return Config{FastWindow: 10, SlowWindow: 50, RSIPeriod: 14}
}

// normalized fills zero fields with defaults and forces FastWindow < SlowWindow.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.FastWindow <= 0 {
		c.FastWindow = d.FastWindow
	}
	if c.SlowWindow <= 0 {
		c.SlowWindow = d.SlowWindow
	}
	if c.RSIPeriod <= 0 {
		c.RSIPeriod = d.RSIPeriod
	}
	if c.FastWindow >= c.SlowWindow {
		c.FastWindow, c.SlowWindow = c.SlowWindow, c.FastWindow
		if c.FastWindow == c.SlowWindow {
			c.SlowWindow++
		}
	}
	return c
}

// Frame holds indicator values aligned 1:1 with the series dates. Slices all
// share the same length; a NaN entry means the value is undefined because the
// warm-up window has not yet filled.
type Frame struct {
	Dates   []time.Time
	Close   []float64
	FastSMA []float64
	SlowSMA []float64
	RSI     []float64
}

// Len returns the number of rows in the frame.
func (f *Frame) Len() int { return len(f.Dates) }

// Compute derives the indicator frame for the series under the given config.
func Compute(s *domain.Series, cfg Config) *Frame {
	cfg = cfg.normalized()
	closes := s.Closes()

	return &Frame{
		Dates:   s.Dates(),
		Close:   closes,
		FastSMA: sma(closes, cfg.FastWindow),
		SlowSMA: sma(closes, cfg.SlowWindow),
		RSI:     rsi(closes, cfg.RSIPeriod),
	}
}

// Trim returns a new frame with the leading rows dropped where any indicator
// is still undefined. After Trim every remaining row has all values defined,
// so downstream stages never see NaN.
func (f *Frame) Trim() *Frame {
	first := f.Len()
	for i := 0; i < f.Len(); i++ {
		if !math.IsNaN(f.FastSMA[i]) && !math.IsNaN(f.SlowSMA[i]) && !math.IsNaN(f.RSI[i]) {
			first = i
			break
		}
	}
	return &Frame{
		Dates:   f.Dates[first:],
		Close:   f.Close[first:],
		FastSMA: f.FastSMA[first:],
		SlowSMA: f.SlowSMA[first:],
		RSI:     f.RSI[first:],
	}
}

// sma computes the trailing simple moving average over window bars, inclusive
// of the current bar. The first window-1 entries are NaN.
func sma(closes []float64, window int) []float64 {
	out := make([]float64, len(closes))
	var sum float64
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// rsi computes the relative-strength index with Wilder smoothing: average
// gain and loss are seeded with the simple mean of the first period changes,
// then updated recursively with alpha = 1/period. The first defined value is
// at index period (one change per bar after the first, period changes
// needed). RSI is pinned to 100 when the average loss is exactly zero rather
// than letting the division blow up.
func rsi(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(closes) <= period {
		return out
	}

	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		gain, loss := change(closes, i)
		gainSum += gain
		lossSum += loss
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	alpha := 1.0 / float64(period)
	for i := period + 1; i < len(closes); i++ {
		gain, loss := change(closes, i)
		avgGain += alpha * (gain - avgGain)
		avgLoss += alpha * (loss - avgLoss)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

// change splits the price change at index i into its gain and loss parts.
func change(closes []float64, i int) (gain, loss float64) {
	d := closes[i] - closes[i-1]
	if d > 0 {
		return d, 0
	}
	return 0, -d
}

// rsiValue converts smoothed average gain/loss into a bounded [0,100] RSI.
func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
