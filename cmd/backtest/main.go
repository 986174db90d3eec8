// Backtest runs the rule-based evaluation pipeline for one symbol (or the
// whole watchlist with -all) against the local bar cache and prints a
// performance report. Strategy and benchmark cumulative curves can be
// exported as CSV for plotting.
//
// Usage:
//
//	go build -o bin/backtest ./cmd/backtest/
//	bin/backtest [-symbol SPY] [-rule sma-cross-rsi] [-csv curves.csv] [-all]
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"quantlab/internal/backtest"
	"quantlab/internal/config"
	"quantlab/internal/indicator"
	"quantlab/internal/store"
	"quantlab/internal/strategy"
	"quantlab/internal/strategy/builtins"
	"quantlab/internal/util"
)

func main() {
	symbol := flag.String("symbol", "", "symbol to evaluate (default: backtest.symbol from config)")
	ruleName := flag.String("rule", "", "trading rule (default: backtest.rule from config)")
	startStr := flag.String("start", "", "history start date YYYY-MM-DD (default: backtest.start_date)")
	fast := flag.Int("fast", 0, "fast SMA window (default: backtest.fast_window)")
	slow := flag.Int("slow", 0, "slow SMA window (default: backtest.slow_window)")
	csvPath := flag.String("csv", "", "write strategy/benchmark cumulative curves to this CSV file")
	all := flag.Bool("all", false, "evaluate every watchlist symbol instead of one")
	flag.Parse()

	cfgPath := "config/quantlab.yaml"
	if p := os.Getenv("QUANTLAB_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	if *symbol == "" {
		*symbol = cfg.Backtest.Symbol
	}
	if *ruleName == "" {
		*ruleName = cfg.Backtest.Rule
	}
	if *startStr == "" {
		*startStr = cfg.Backtest.StartDate
	}
	if *fast == 0 {
		*fast = cfg.Backtest.FastWindow
	}
	if *slow == 0 {
		*slow = cfg.Backtest.SlowWindow
	}

	start, err := time.Parse("2006-01-02", *startStr)
	if err != nil {
		log.Fatalf("invalid start date %q: %v", *startStr, err)
	}
	end := time.Now().UTC()

	runCfg := backtest.Config{
		Indicator: indicator.Config{
			FastWindow: *fast,
			SlowWindow: *slow,
			RSIPeriod:  cfg.Backtest.RSIPeriod,
		},
		TradingDays: cfg.Backtest.TradingDays,
	}

	registry := strategy.NewRegistry()
	builtins.RegisterAll(registry, cfg.Backtest.Overbought)

	barStore := store.NewParquetStore(cfg.Storage.DataDir)
	bt := backtest.New(barStore, registry)
	ctx := context.Background()

	if *all {
		symbols := make([]string, 0, len(cfg.Watchlist))
		for _, w := range cfg.Watchlist {
			symbols = append(symbols, w.Symbol)
		}
		items := bt.RunBatch(ctx, symbols, *ruleName, start, end, runCfg, 4)
		for _, item := range items {
			if item.Err != nil {
				fmt.Printf("%-8s error: %v\n", item.Symbol, item.Err)
				continue
			}
			fmt.Printf("%-8s %s\n", item.Symbol, item.Result.Report)
		}
		return
	}

	res, err := bt.Run(ctx, *symbol, *ruleName, start, end, runCfg)
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	fmt.Printf("%s (%s, %d/%d)\n", res.Symbol, res.Rule, *fast, *slow)
	fmt.Printf("final strategy return: %.2fx\n", res.Report.FinalReturn)
	fmt.Printf("final buy-and-hold return: %.2fx\n", res.Report.BenchmarkReturn)
	fmt.Printf("sharpe ratio: %.2f\n", res.Report.SharpeRatio)
	fmt.Printf("max drawdown: %.2f%%\n", res.Report.MaxDrawdown*100)

	if *csvPath != "" {
		if err := writeCurves(*csvPath, res); err != nil {
			log.Fatalf("writing curves: %v", err)
		}
		fmt.Printf("curves written to %s\n", *csvPath)
	}
}

// writeCurves exports the aligned strategy and benchmark cumulative curves
// for external plotting.
func writeCurves(path string, res *backtest.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"date", "strategy", "benchmark"}); err != nil {
		return err
	}
	for i, d := range res.Dates {
		rec := []string{
			d.Format("2006-01-02"),
			fmt.Sprintf("%.6f", res.Strategy[i]),
			fmt.Sprintf("%.6f", res.Benchmark[i]),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Error()
}
