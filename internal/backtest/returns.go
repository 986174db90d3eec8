package backtest

// DailyReturns converts close prices into daily return fractions:
// r[t] = close[t]/close[t-1] - 1. The first bar has no prior close, so its
// return is 0 by policy (fill-then-compound); dropping it would desynchronize
// the date index against the benchmark series.
func DailyReturns(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		out[i] = closes[i]/closes[i-1] - 1
	}
	return out
}

// ApplySignal lags the position series by one bar and multiplies it into the
// raw returns: strategy[t] = raw[t] * position[t-1]. The one-bar lag is the
// anti-look-ahead invariant: a position decided at the close of t-1 can only
// earn the return realized during day t. The first bar has no prior position
// and earns 0.
func ApplySignal(raw []float64, positions []int) []float64 {
	out := make([]float64, len(raw))
	for i := 1; i < len(raw) && i-1 < len(positions); i++ {
		out[i] = raw[i] * float64(positions[i-1])
	}
	return out
}

// Cumulative compounds a return series into a growth curve:
// c[t] = c[t-1] * (1 + r[t]), starting from 1.0. With the fill-as-zero policy
// on the first return, c[0] is exactly 1.0.
func Cumulative(returns []float64) []float64 {
	out := make([]float64, len(returns))
	acc := 1.0
	for i, r := range returns {
		acc *= 1 + r
		out[i] = acc
	}
	return out
}
