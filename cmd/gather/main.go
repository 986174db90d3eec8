// Gather fetches daily bars for the configured watchlist from the Alpaca
// market-data API into the local Parquet cache. Run it before cmd/backtest
// or cmd/sweep so the evaluation pipeline reads from a complete cache.
//
// Usage:
//
//	go build -o bin/gather ./cmd/gather/
//	APCA_API_KEY_ID=... APCA_API_SECRET_KEY=... bin/gather
package main

import (
	"context"
	"log"
	"os"

	"quantlab/internal/config"
	"quantlab/internal/gather"
	"quantlab/internal/store"
	"quantlab/internal/util"
)

func main() {
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

	if cfg.Alpaca.APIKey == "" {
		log.Fatal("Alpaca API key not set (APCA_API_KEY_ID)")
	}

	// The backtest default symbol is gathered alongside the watchlist so a
	// fresh checkout can evaluate immediately.
	seen := map[string]bool{}
	var symbols []string
	for _, w := range cfg.Watchlist {
		if !seen[w.Symbol] {
			seen[w.Symbol] = true
			symbols = append(symbols, w.Symbol)
		}
	}
	if !seen[cfg.Backtest.Symbol] {
		symbols = append(symbols, cfg.Backtest.Symbol)
	}

	barStore := store.NewParquetStore(cfg.Storage.DataDir)
	g := gather.NewWatchlistGatherer(
		cfg.Alpaca.APIKey,
		cfg.Alpaca.APISecret,
		cfg.Alpaca.DataURL,
		cfg.Alpaca.BaseURL,
		barStore,
		symbols,
		cfg.Backtest.StartDate,
		cfg.Alpaca.RateLimitPerMin,
	)

	if err := g.Run(context.Background()); err != nil {
		log.Fatalf("gather failed: %v", err)
	}
}
