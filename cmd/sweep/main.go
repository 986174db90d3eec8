// Sweep evaluates one symbol across a grid of fast/slow SMA windows and
// ranks the combinations by Sharpe ratio. Every pipeline stage is a pure
// function over immutable inputs, so the combinations run concurrently with
// no shared state.
//
// Usage:
//
//	go build -o bin/sweep ./cmd/sweep/
//	bin/sweep -symbol SPY -fast 5,10,20 -slow 30,50,100
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"quantlab/internal/backtest"
	"quantlab/internal/config"
	"quantlab/internal/domain"
	"quantlab/internal/indicator"
	"quantlab/internal/store"
	"quantlab/internal/strategy"
	"quantlab/internal/strategy/builtins"
	"quantlab/internal/util"
)

type sweepResult struct {
	fast, slow int
	report     backtest.Report
}

func main() {
	symbol := flag.String("symbol", "", "symbol to evaluate (default: backtest.symbol from config)")
	ruleName := flag.String("rule", "", "trading rule (default: backtest.rule from config)")
	fastList := flag.String("fast", "5,10,20", "comma-separated fast SMA windows")
	slowList := flag.String("slow", "30,50,100", "comma-separated slow SMA windows")
	workers := flag.Int("workers", 4, "concurrent evaluations")
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

	fasts, err := parseWindows(*fastList)
	if err != nil {
		log.Fatalf("invalid -fast: %v", err)
	}
	slows, err := parseWindows(*slowList)
	if err != nil {
		log.Fatalf("invalid -slow: %v", err)
	}

	registry := strategy.NewRegistry()
	builtins.RegisterAll(registry, cfg.Backtest.Overbought)
	rule, ok := registry.Get(*ruleName)
	if !ok {
		log.Fatalf("unknown rule %q (have %v)", *ruleName, registry.List())
	}

	// Load the series once; every combination evaluates the same immutable data.
	start, err := time.Parse("2006-01-02", cfg.Backtest.StartDate)
	if err != nil {
		log.Fatalf("invalid start date: %v", err)
	}
	barStore := store.NewParquetStore(cfg.Storage.DataDir)
	bars, err := barStore.ReadBars(context.Background(), *symbol, string(domain.MarketUS), start, time.Now().UTC())
	if err != nil {
		log.Fatalf("reading bars: %v", err)
	}
	if len(bars) == 0 {
		log.Fatalf("no bars for %s — run cmd/gather first", *symbol)
	}
	series := domain.NewSeries(*symbol, bars)

	type combo struct{ fast, slow int }
	var combos []combo
	for _, f := range fasts {
		for _, s := range slows {
			if f < s {
				combos = append(combos, combo{f, s})
			}
		}
	}
	if len(combos) == 0 {
		log.Fatal("no valid fast < slow combinations")
	}

	results := make([]sweepResult, len(combos))
	comboCh := make(chan int, len(combos))
	for i := range combos {
		comboCh <- i
	}
	close(comboCh)

	var wg sync.WaitGroup
	n := *workers
	if n <= 0 || n > len(combos) {
		n = len(combos)
	}
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range comboCh {
				c := combos[i]
				res := backtest.Evaluate(series, rule, backtest.Config{
					Indicator: indicator.Config{
						FastWindow: c.fast,
						SlowWindow: c.slow,
						RSIPeriod:  cfg.Backtest.RSIPeriod,
					},
					TradingDays: cfg.Backtest.TradingDays,
				})
				results[i] = sweepResult{fast: c.fast, slow: c.slow, report: res.Report}
			}
		}()
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].report.SharpeRatio > results[j].report.SharpeRatio
	})

	fmt.Printf("%s / %s — %d combinations\n", *symbol, *ruleName, len(results))
	fmt.Printf("%-6s %-6s %-10s %-10s %-10s %s\n", "FAST", "SLOW", "RETURN", "SHARPE", "MAXDD", "BARS")
	for _, r := range results {
		fmt.Printf("%-6d %-6d %-10s %-10.2f %-10s %d\n",
			r.fast, r.slow,
			fmt.Sprintf("%.2fx", r.report.FinalReturn),
			r.report.SharpeRatio,
			fmt.Sprintf("%.2f%%", r.report.MaxDrawdown*100),
			r.report.Bars,
		)
	}
}

// parseWindows parses a comma-separated list of positive window lengths.
func parseWindows(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("bad window %q", part)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty window list")
	}
	return out, nil
}
