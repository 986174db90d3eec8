package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"quantlab/internal/domain"
)

func TestParquetStorePaths(t *testing.T) {
	ps := NewParquetStore("/data")

	ts := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	bp := ps.barPath("spy", "us", ts)

	wantBarPath := filepath.Join("/data", "us", "daily", "SPY", "2024.parquet")
	if bp != wantBarPath {
		t.Errorf("barPath mismatch:\n  got  %s\n  want %s", bp, wantBarPath)
	}

	np := ps.newsPath("2024-06-15")
	wantNewsPath := filepath.Join("/data", "us", "news", "2024-06-15.parquet")
	if np != wantNewsPath {
		t.Errorf("newsPath mismatch:\n  got  %s\n  want %s", np, wantNewsPath)
	}
}

func TestParquetStoreWriteReadBars(t *testing.T) {
	dir := t.TempDir()
	ps := NewParquetStore(dir)
	ctx := context.Background()

	bars := []domain.Bar{
		{
			Symbol:    "SPY",
			Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Open:      470.0, High: 472.5, Low: 468.0, Close: 471.5,
			Volume: 80000000, TradeCount: 600000, VWAP: 470.8,
		},
		{
			Symbol:    "SPY",
			Timestamp: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			Open:      471.5, High: 473.0, Low: 470.0, Close: 472.0,
			Volume: 75000000, TradeCount: 550000, VWAP: 471.6,
		},
	}

	if err := ps.WriteBars(ctx, bars); err != nil {
		t.Fatalf("WriteBars: %v", err)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	got, err := ps.ReadBars(ctx, "SPY", "us", start, end)
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadBars returned %d bars, want 2", len(got))
	}
	if got[0].Close != 471.5 {
		t.Errorf("first bar Close = %v, want 471.5", got[0].Close)
	}
	if got[1].Close != 472.0 {
		t.Errorf("second bar Close = %v, want 472.0", got[1].Close)
	}
}

func TestParquetStoreMergeBars(t *testing.T) {
	dir := t.TempDir()
	ps := NewParquetStore(dir)
	ctx := context.Background()

	bars1 := []domain.Bar{
		{
			Symbol:    "QQQ",
			Timestamp: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Open:      430.0, High: 435.0, Low: 429.0, Close: 433.0,
			Volume: 30000000, TradeCount: 300000, VWAP: 432.0,
		},
	}
	if err := ps.WriteBars(ctx, bars1); err != nil {
		t.Fatalf("WriteBars (first): %v", err)
	}

	// Write another bar for the same symbol+year — should merge, not overwrite.
	bars2 := []domain.Bar{
		{
			Symbol:    "QQQ",
			Timestamp: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			Open:      433.0, High: 440.0, Low: 432.0, Close: 438.0,
			Volume: 35000000, TradeCount: 350000, VWAP: 436.0,
		},
	}
	if err := ps.WriteBars(ctx, bars2); err != nil {
		t.Fatalf("WriteBars (second): %v", err)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	got, err := ps.ReadBars(ctx, "QQQ", "us", start, end)
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadBars returned %d bars after merge, want 2", len(got))
	}
}

func TestParquetStoreListSymbols(t *testing.T) {
	dir := t.TempDir()
	ps := NewParquetStore(dir)
	ctx := context.Background()

	bars := []domain.Bar{
		{Symbol: "GOOGL", Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 140.0, High: 141.0, Low: 139.0, Close: 140.5, Volume: 20000000},
		{Symbol: "TSLA", Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 250.0, High: 255.0, Low: 248.0, Close: 252.0, Volume: 90000000},
	}
	if err := ps.WriteBars(ctx, bars); err != nil {
		t.Fatalf("WriteBars: %v", err)
	}

	symbols, err := ps.ListSymbols(ctx, "us")
	if err != nil {
		t.Fatalf("ListSymbols: %v", err)
	}
	if len(symbols) != 2 {
		t.Fatalf("ListSymbols returned %d symbols, want 2", len(symbols))
	}
	if symbols[0] != "GOOGL" || symbols[1] != "TSLA" {
		t.Errorf("ListSymbols = %v, want [GOOGL TSLA]", symbols)
	}
}

func TestParquetStoreNewsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ps := NewParquetStore(dir)
	ctx := context.Background()

	records := []NewsRecord{
		{Symbol: "NVDA", Source: "google", Time: time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC).UnixMilli(), Headline: "later"},
		{Symbol: "NVDA", Source: "alpaca", Time: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC).UnixMilli(), Headline: "earlier"},
	}
	if err := ps.WriteNews(ctx, "2024-05-01", records); err != nil {
		t.Fatalf("WriteNews: %v", err)
	}

	got, err := ps.ReadNews(ctx, "2024-05-01")
	if err != nil {
		t.Fatalf("ReadNews: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadNews returned %d records, want 2", len(got))
	}
	// Archive is stored time-ascending.
	if got[0].Headline != "earlier" || got[1].Headline != "later" {
		t.Errorf("ReadNews order = [%s %s], want [earlier later]", got[0].Headline, got[1].Headline)
	}

	// Missing date reads as empty.
	none, err := ps.ReadNews(ctx, "2024-05-02")
	if err != nil {
		t.Fatalf("ReadNews (missing): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ReadNews (missing) returned %d records, want 0", len(none))
	}
}
