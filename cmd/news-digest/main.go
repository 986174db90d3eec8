// News-digest fetches recent headlines for the configured watchlist from
// Alpaca, Google News RSS, and GlobeNewswire RSS, and prints them as one
// chronologically sorted table, newest first. A failing ticker is reported
// inline and never aborts the batch. With -archive the fetched articles are
// also written to the Parquet news archive.
//
// Usage:
//
//	go build -o bin/news-digest ./cmd/news-digest/
//	bin/news-digest [-hours 24] [-archive]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"quantlab/internal/config"
	"quantlab/internal/news"
	"quantlab/internal/store"
	"quantlab/internal/util"
)

func main() {
	hours := flag.Int("hours", 24, "lookback window in hours")
	archive := flag.Bool("archive", false, "also write articles to the Parquet news archive")
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

	if len(cfg.Watchlist) == 0 {
		log.Fatal("watchlist is empty")
	}

	sources := []news.Source{
		news.GoogleNewsSource{},
		news.GlobeNewswireSource{},
	}
	if cfg.Alpaca.APIKey != "" {
		mdc := marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    cfg.Alpaca.APIKey,
			APISecret: cfg.Alpaca.APISecret,
		})
		sources = append(sources, &news.AlpacaSource{Client: mdc})
	}

	watchlist := make([]news.Entry, 0, len(cfg.Watchlist))
	for _, w := range cfg.Watchlist {
		watchlist = append(watchlist, news.Entry{Name: w.Name, Symbol: w.Symbol})
	}

	end := time.Now().UTC()
	start := end.Add(-time.Duration(*hours) * time.Hour)

	ctx := context.Background()
	agg := news.NewAggregator(sources)
	digest := agg.Gather(ctx, watchlist, start, end)

	if err := digest.WriteTable(os.Stdout); err != nil {
		log.Fatalf("writing digest: %v", err)
	}

	if *archive {
		records := make([]store.NewsRecord, 0, len(digest.Headlines))
		for _, h := range digest.Headlines {
			records = append(records, store.NewsRecord{
				Symbol:   h.Symbol,
				Source:   h.Source,
				Time:     h.Time.UnixMilli(),
				Headline: h.Title,
				Summary:  h.Summary,
			})
		}
		ns := store.NewParquetStore(cfg.Storage.DataDir)
		date := end.Format("2006-01-02")
		if err := ns.WriteNews(ctx, date, records); err != nil {
			log.Fatalf("archiving news: %v", err)
		}
		logger.Info("news archived", "date", date, "articles", len(records))
	}
}
