// Package backtest evaluates per-bar trading rules against historical daily
// bars and computes performance metrics. The pipeline is a chain of pure
// stages over immutable inputs — series, indicator frame, position series,
// return series, cumulative curve — so independent runs never interfere and
// parameter sweeps are just repeated invocations.
package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quantlab/internal/domain"
	"quantlab/internal/indicator"
	"quantlab/internal/store"
	"quantlab/internal/strategy"
)

// Config holds the evaluation parameters for one backtest run.
type Config struct {
	Indicator   indicator.Config
	TradingDays int // annualization factor, default 252
}

// Report holds the summary metrics produced by a backtest run.
type Report struct {
	FinalReturn     float64 // final strategy growth multiple (1.0 = flat)
	BenchmarkReturn float64 // final buy-and-hold growth multiple
	SharpeRatio     float64 // annualized
	MaxDrawdown     float64 // fraction, always <= 0
	Bars            int     // evaluated bars after warm-up trim
}

// String formats the report the way the CLI prints it.
func (r Report) String() string {
	return fmt.Sprintf(
		"final strategy return: %.2fx | buy-and-hold: %.2fx | sharpe: %.2f | max drawdown: %.2f%%",
		r.FinalReturn, r.BenchmarkReturn, r.SharpeRatio, r.MaxDrawdown*100,
	)
}

// Result holds the full output of one run: the report plus the aligned
// cumulative curves handed to external reporting/plotting.
type Result struct {
	Symbol    string
	Rule      string
	Dates     []time.Time
	Strategy  []float64 // cumulative strategy growth, Strategy[0] == 1.0
	Benchmark []float64 // cumulative buy-and-hold growth, same dates
	Report    Report
}

// Evaluate runs the full pipeline over an already-loaded series. It never
// fails on well-formed input: a series shorter than the warm-up window yields
// an empty result with zeroed metrics (FinalReturn and BenchmarkReturn 1.0).
func Evaluate(series *domain.Series, rule strategy.Rule, cfg Config) *Result {
	if cfg.TradingDays <= 0 {
		cfg.TradingDays = 252
	}

	res := &Result{
		Symbol: series.Symbol(),
		Rule:   rule.Name(),
		Report: Report{FinalReturn: 1, BenchmarkReturn: 1},
	}

	frame := indicator.Compute(series, cfg.Indicator).Trim()
	if frame.Len() == 0 {
		// Not enough bars for the slow window: empty-series policy.
		return res
	}

	positions := strategy.Positions(rule, frame)

	raw := DailyReturns(frame.Close)
	strat := ApplySignal(raw, positions)

	res.Dates = frame.Dates
	res.Strategy = Cumulative(strat)
	res.Benchmark = Cumulative(raw)

	res.Report = Report{
		FinalReturn:     res.Strategy[len(res.Strategy)-1],
		BenchmarkReturn: res.Benchmark[len(res.Benchmark)-1],
		SharpeRatio:     Sharpe(strat, cfg.TradingDays),
		MaxDrawdown:     MaxDrawdown(res.Strategy),
		Bars:            frame.Len(),
	}
	return res
}

// Backtester reads historical bars from a store and evaluates rules from a
// registry against them.
type Backtester struct {
	store    store.BarStore
	registry *strategy.Registry
	log      *slog.Logger
}

// New creates a Backtester that reads bars from the given store and looks up
// rules in the provided registry.
func New(barStore store.BarStore, registry *strategy.Registry) *Backtester {
	return &Backtester{
		store:    barStore,
		registry: registry,
		log:      slog.Default().With("component", "backtest"),
	}
}

// Run executes a backtest for the named rule over one symbol and date range.
// A missing rule is a caller error; missing or empty bar data surfaces as a
// domain.UpstreamError so batch callers can mark the symbol and move on.
func (bt *Backtester) Run(ctx context.Context, symbol, ruleName string, start, end time.Time, cfg Config) (*Result, error) {
	rule, ok := bt.registry.Get(ruleName)
	if !ok {
		return nil, fmt.Errorf("unknown rule %q (have %v)", ruleName, bt.registry.List())
	}

	bars, err := bt.store.ReadBars(ctx, symbol, string(domain.MarketUS), start, end)
	if err != nil {
		return nil, &domain.UpstreamError{Symbol: symbol, Err: err}
	}
	if len(bars) == 0 {
		return nil, &domain.UpstreamError{Symbol: symbol, Err: fmt.Errorf("no bars between %s and %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))}
	}

	series := domain.NewSeries(symbol, bars)
	res := Evaluate(series, rule, cfg)

	bt.log.Info("run complete",
		"symbol", symbol,
		"rule", ruleName,
		"bars", res.Report.Bars,
		"final", fmt.Sprintf("%.2fx", res.Report.FinalReturn),
	)
	return res, nil
}
