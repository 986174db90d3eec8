package news

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"
)

// Entry is one watchlist row: a friendly company name and the ticker symbol
// the data providers use.
type Entry struct {
	Name   string
	Symbol string
}

// Digest aggregates headlines for a whole watchlist: the merged, newest-first
// headline list plus an error marker per symbol whose every source failed.
// One failing ticker never aborts the batch.
type Digest struct {
	Headlines []Headline
	Failed    map[string]error
}

// Aggregator fetches from a fixed set of sources for every watchlist entry.
type Aggregator struct {
	sources []Source
	log     *slog.Logger
}

// NewAggregator creates an Aggregator over the given sources.
func NewAggregator(sources []Source) *Aggregator {
	return &Aggregator{
		sources: sources,
		log:     slog.Default().With("component", "news"),
	}
}

// Gather fetches headlines for every watchlist entry within [start, end].
// A source failing for one symbol is logged and skipped; the symbol is only
// marked failed when no source returned anything and at least one errored.
func (a *Aggregator) Gather(ctx context.Context, watchlist []Entry, start, end time.Time) *Digest {
	d := &Digest{Failed: make(map[string]error)}

	for _, entry := range watchlist {
		if ctx.Err() != nil {
			d.Failed[entry.Symbol] = ctx.Err()
			continue
		}

		var (
			fetched  []Headline
			lastErr  error
			failures int
		)
		for _, src := range a.sources {
			hs, err := src.Fetch(ctx, entry.Symbol, start, end)
			if err != nil {
				a.log.Warn("source failed", "source", src.Name(), "symbol", entry.Symbol, "err", err)
				lastErr = err
				failures++
				continue
			}
			fetched = append(fetched, hs...)
		}

		if len(fetched) == 0 && failures == len(a.sources) && lastErr != nil {
			d.Failed[entry.Symbol] = lastErr
			continue
		}

		for i := range fetched {
			fetched[i].Company = entry.Name
		}
		d.Headlines = append(d.Headlines, fetched...)
	}

	// Newest first across the whole watchlist.
	sort.SliceStable(d.Headlines, func(i, j int) bool {
		return d.Headlines[i].Time.After(d.Headlines[j].Time)
	})
	return d
}

// WriteTable renders the digest as a fixed-width text table, newest first,
// with failed symbols listed at the bottom.
func (d *Digest) WriteTable(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%-20s | %-10s | %s\n", "TIMESTAMP", "TICKER", "HEADLINE"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "--------------------------------------------------------------------------------"); err != nil {
		return err
	}

	for _, h := range d.Headlines {
		name := h.Company
		if name == "" {
			name = h.Symbol
		}
		if _, err := fmt.Fprintf(w, "[%s] %-10s | %s\n",
			h.Time.Format("2006-01-02 15:04:05"), name, h.Title); err != nil {
			return err
		}
	}

	if len(d.Failed) > 0 {
		symbols := make([]string, 0, len(d.Failed))
		for sym := range d.Failed {
			symbols = append(symbols, sym)
		}
		sort.Strings(symbols)
		for _, sym := range symbols {
			if _, err := fmt.Fprintf(w, "error on %s: %v\n", sym, d.Failed[sym]); err != nil {
				return err
			}
		}
	}
	return nil
}
