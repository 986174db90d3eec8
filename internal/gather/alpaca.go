package gather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"quantlab/internal/domain"
	"quantlab/internal/store"
	"quantlab/internal/util"
)

// Compile-time interface check.
var _ Gatherer = (*WatchlistGatherer)(nil)

// WatchlistGatherer fetches daily bars for a fixed watchlist of symbols from
// the Alpaca market-data API and writes them to the bar cache. It is a
// one-shot batch job: run it before evaluating strategies so the backtester
// reads from a complete local cache.
type WatchlistGatherer struct {
	client    *marketdata.Client
	store     store.BarStore
	symbols   []string
	startDate string
	apiKey    string
	apiSecret string
	baseURL   string // live trading API, used for the calendar
	limiter   *util.RateLimiter
	log       *slog.Logger
}

// NewWatchlistGatherer creates a WatchlistGatherer configured with the given
// Alpaca credentials, target store, watchlist, and history start date.
func NewWatchlistGatherer(apiKey, apiSecret, dataURL, baseURL string, s store.BarStore, symbols []string, startDate string, rateLimitPerMin int) *WatchlistGatherer {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	if rateLimitPerMin <= 0 {
		rateLimitPerMin = 200
	}

	return &WatchlistGatherer{
		client:    marketdata.NewClient(opts),
		store:     s,
		symbols:   symbols,
		startDate: startDate,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   baseURL,
		limiter:   util.NewRateLimiter(rateLimitPerMin),
		log:       slog.Default().With("gatherer", "watchlist"),
	}
}

// Name returns the gatherer identifier.
func (g *WatchlistGatherer) Name() string { return "watchlist" }

// Run fetches daily bars for the watchlist from the history start date
// through the most recent finished trading day and writes them to the cache.
// A symbol with no data is logged and skipped; only transport-level failures
// abort the pass.
func (g *WatchlistGatherer) Run(ctx context.Context) error {
	start, err := time.Parse("2006-01-02", g.startDate)
	if err != nil {
		return fmt.Errorf("parsing start date %q: %w", g.startDate, err)
	}

	end, err := LatestFinishedTradingDay(g.apiKey, g.apiSecret, g.baseURL)
	if err != nil {
		return fmt.Errorf("determining end date: %w", err)
	}
	rng := DateRange{Start: start, End: end}

	g.log.Info("starting watchlist gather",
		"symbols", len(g.symbols),
		"start", g.startDate,
		"end", end.Format("2006-01-02"),
	)

	bars, err := g.fetchMultiBars(ctx, g.symbols, rng)
	if err != nil {
		return err
	}

	hit := make(map[string]int)
	for _, b := range bars {
		hit[b.Symbol]++
	}
	for _, sym := range g.symbols {
		if hit[strings.ToUpper(sym)] == 0 {
			g.log.Warn("no bars for symbol", "symbol", sym)
		}
	}

	if err := g.store.WriteBars(ctx, bars); err != nil {
		return fmt.Errorf("writing bars: %w", err)
	}

	g.log.Info("complete", "bars", len(bars), "symbols_with_data", len(hit))
	return nil
}

// fetchMultiBars fetches daily bars for multiple symbols in a single API
// call, with a retry around transient failures.
func (g *WatchlistGatherer) fetchMultiBars(ctx context.Context, symbols []string, rng DateRange) ([]domain.Bar, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var multiBars map[string][]marketdata.Bar
	err := util.Retry(ctx, 3, time.Second, func() error {
		var ferr error
		multiBars, ferr = g.client.GetMultiBars(symbols, marketdata.GetBarsRequest{
			TimeFrame: marketdata.OneDay,
			Start:     rng.Start,
			End:       rng.End,
			Feed:      "sip",
		})
		return ferr
	})
	if err != nil {
		return nil, fmt.Errorf("GetMultiBars: %w", err)
	}

	var bars []domain.Bar
	for symbol, alpacaBars := range multiBars {
		for _, ab := range alpacaBars {
			bars = append(bars, domain.Bar{
				Symbol:     strings.ToUpper(symbol),
				Timestamp:  ab.Timestamp,
				Open:       ab.Open,
				High:       ab.High,
				Low:        ab.Low,
				Close:      ab.Close,
				Volume:     int64(ab.Volume),
				TradeCount: int64(ab.TradeCount),
				VWAP:       ab.VWAP,
			})
		}
	}
	return bars, nil
}
