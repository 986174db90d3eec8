package backtest

import (
	"math"
	"testing"
)

func TestSharpeZeroVariance(t *testing.T) {
	flat := []float64{0.01, 0.01, 0.01, 0.01}
	if got := Sharpe(flat, 252); got != 0 {
		t.Errorf("Sharpe of zero-variance series = %v, want 0", got)
	}

	zeros := make([]float64, 10)
	if got := Sharpe(zeros, 252); got != 0 {
		t.Errorf("Sharpe of all-zero series = %v, want 0", got)
	}
}

func TestSharpeTooFewObservations(t *testing.T) {
	if got := Sharpe(nil, 252); got != 0 {
		t.Errorf("Sharpe(nil) = %v, want 0", got)
	}
	if got := Sharpe([]float64{0.01}, 252); got != 0 {
		t.Errorf("Sharpe of one observation = %v, want 0", got)
	}
}

func TestSharpeKnownValue(t *testing.T) {
	// mean = 0.01, sample std = sqrt(sum((r-mean)^2)/(n-1)).
	returns := []float64{0.00, 0.02, 0.00, 0.02}
	mean := 0.01
	std := math.Sqrt((4 * 0.0001) / 3)
	want := mean / std * math.Sqrt(252)

	if got := Sharpe(returns, 252); !almostEqual(got, want) {
		t.Errorf("Sharpe = %v, want %v", got, want)
	}
}

func TestSharpeAnnualizationFactor(t *testing.T) {
	returns := []float64{0.00, 0.02, 0.01, -0.01, 0.03}
	s252 := Sharpe(returns, 252)
	s365 := Sharpe(returns, 365)

	if !almostEqual(s365/s252, math.Sqrt(365.0/252.0)) {
		t.Errorf("annualization ratio = %v, want sqrt(365/252)", s365/s252)
	}
}

func TestMaxDrawdownKnownCurve(t *testing.T) {
	curve := []float64{1.0, 1.1, 0.99, 1.2, 0.9}
	// Running max: 1.0, 1.1, 1.1, 1.2, 1.2.
	// Drawdowns:   0, 0, 0.99/1.1-1, 0, 0.9/1.2-1.
	want := 0.9/1.2 - 1

	if got := MaxDrawdown(curve); !almostEqual(got, want) {
		t.Errorf("MaxDrawdown = %v, want %v", got, want)
	}
}

func TestMaxDrawdownNeverPositive(t *testing.T) {
	rising := []float64{1.0, 1.05, 1.1, 1.5, 2.0}
	if got := MaxDrawdown(rising); got != 0 {
		t.Errorf("MaxDrawdown of monotonic curve = %v, want 0", got)
	}

	if got := MaxDrawdown(nil); got != 0 {
		t.Errorf("MaxDrawdown(nil) = %v, want 0", got)
	}

	mixed := []float64{1.0, 0.8, 1.3, 1.1, 1.6}
	if got := MaxDrawdown(mixed); got > 0 {
		t.Errorf("MaxDrawdown = %v, must be <= 0", got)
	}
}
