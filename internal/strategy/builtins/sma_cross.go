// Package builtins provides the built-in trading rules that ship with
// quantlab.
package builtins

import (
	"quantlab/internal/strategy"
)

// Compile-time interface checks.
var _ strategy.Rule = (*SMACross)(nil)
var _ strategy.Rule = (*FilteredSMACross)(nil)

// SMACross is the simple crossover rule: long whenever the fast SMA is above
// the slow SMA, flat otherwise.
type SMACross struct{}

// Name returns "sma-cross".
func (SMACross) Name() string { return "sma-cross" }

// Position returns 1 when the fast SMA is strictly above the slow SMA.
func (SMACross) Position(r strategy.Row) int {
	if r.FastSMA > r.SlowSMA {
		return 1
	}
	return 0
}

// FilteredSMACross is the crossover rule with an RSI overbought filter: the
// long signal is suppressed when RSI is at or above the overbought threshold,
// so the rule does not enter into already-overbought conditions.
type FilteredSMACross struct {
	overbought float64
}

// NewFilteredSMACross creates the filtered rule with the given RSI overbought
// threshold. A threshold <= 0 falls back to the standard 70.
func NewFilteredSMACross(overbought float64) *FilteredSMACross {
	if overbought <= 0 {
		overbought = 70
	}
	return &FilteredSMACross{overbought: overbought}
}

// Name returns "sma-cross-rsi".
func (*FilteredSMACross) Name() string { return "sma-cross-rsi" }

// Position returns 1 when the fast SMA is above the slow SMA and RSI is
// below the overbought threshold.
func (f *FilteredSMACross) Position(r strategy.Row) int {
	if r.FastSMA > r.SlowSMA && r.RSI < f.overbought {
		return 1
	}
	return 0
}

// RegisterAll registers both builtin rules on the registry with the given
// overbought threshold for the filtered variant.
func RegisterAll(reg *strategy.Registry, overbought float64) {
	reg.Register(SMACross{})
	reg.Register(NewFilteredSMACross(overbought))
}
