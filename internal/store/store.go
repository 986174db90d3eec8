// Package store defines storage interfaces for persisting and retrieving
// historical market data: daily bars for the backtester and archived news
// headlines for the watchlist digest.
package store

import (
	"context"
	"time"

	"quantlab/internal/domain"
)

// BarStore persists and retrieves OHLCV bar data.
type BarStore interface {
	// WriteBars persists a batch of bars to storage.
	WriteBars(ctx context.Context, bars []domain.Bar) error

	// ReadBars returns bars for the given symbol and market within [start, end].
	ReadBars(ctx context.Context, symbol string, market string, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all distinct symbols available in the given market.
	ListSymbols(ctx context.Context, market string) ([]string, error)
}

// NewsStore persists and retrieves archived news headlines by date.
type NewsStore interface {
	// WriteNews persists the articles fetched for one calendar date.
	WriteNews(ctx context.Context, date string, records []NewsRecord) error

	// ReadNews returns the archived articles for one calendar date.
	ReadNews(ctx context.Context, date string) ([]NewsRecord, error)
}
