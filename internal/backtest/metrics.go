package backtest

import "math"

// Sharpe computes the annualized Sharpe ratio of a daily return series:
// mean/std * sqrt(tradingDays), with std the sample standard deviation.
// Zero-variance series (flat or no-trade periods) report 0 rather than NaN.
func Sharpe(returns []float64, tradingDays int) float64 {
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var sq float64
	for _, r := range returns {
		d := r - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(returns)-1))
	if std == 0 {
		return 0
	}

	return mean / std * math.Sqrt(float64(tradingDays))
}

// MaxDrawdown returns the most negative peak-to-trough decline of a
// cumulative growth curve: min over t of cumulative[t]/runningMax[t] - 1.
// The result is always <= 0; an empty or never-declining curve reports 0.
func MaxDrawdown(cumulative []float64) float64 {
	var maxDD float64
	peak := math.Inf(-1)
	for _, c := range cumulative {
		if c > peak {
			peak = c
		}
		if dd := c/peak - 1; dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
