// Package strategy defines the Rule interface for per-bar trading rules and
// provides a Registry for managing multiple rule implementations.
package strategy

import (
	"sort"

	"quantlab/internal/indicator"
)

// Row is the indicator view a rule sees for a single bar. Rows only ever
// carry values from the bar's own date; a rule can never observe the future.
type Row struct {
	FastSMA float64
	SlowSMA float64
	RSI     float64
}

// Rule maps one bar's indicator values to a target position: 0 (flat) or
// 1 (long). Rules are pure per-bar functions; any state a rule needs must
// already be encoded in the indicator frame.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Position returns the target position for a bar given its indicator row.
	Position(r Row) int
}

// Positions evaluates the rule over every row of a trimmed indicator frame
// and returns the per-bar position series, aligned with the frame dates.
func Positions(rule Rule, f *indicator.Frame) []int {
	out := make([]int, f.Len())
	for i := 0; i < f.Len(); i++ {
		out[i] = rule.Position(Row{
			FastSMA: f.FastSMA[i],
			SlowSMA: f.SlowSMA[i],
			RSI:     f.RSI[i],
		})
	}
	return out
}

// Registry holds a named collection of rules for lookup and enumeration.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry creates an empty rule Registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]Rule),
	}
}

// Register adds a rule to the registry, keyed by its Name().
func (r *Registry) Register(rule Rule) {
	r.rules[rule.Name()] = rule
}

// Get retrieves a rule by name. The second return value indicates whether
// the rule was found.
func (r *Registry) Get(name string) (Rule, bool) {
	rule, ok := r.rules[name]
	return rule, ok
}

// List returns a sorted slice of all registered rule names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
