// Package domain defines the core market-data types shared across the
// quantlab pipeline: daily bars, cleaned price series, and the error class
// that upstream data sources surface to callers.
package domain

import (
	"fmt"
	"time"
)

// Market identifies a trading venue / data namespace.
type Market string

// Supported markets.
const (
	MarketUS Market = "us"
)

// Bar is one daily OHLCV bar for a single instrument.
type Bar struct {
	Symbol     string
	Timestamp  time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     int64
	TradeCount int64
	VWAP       float64
}

// UpstreamError wraps a failure of an external data source (market data or
// news) for one symbol. It is the only error class the evaluation pipeline
// surfaces to callers; batch runners catch it per symbol so one bad
// instrument never aborts a watchlist run.
type UpstreamError struct {
	Symbol string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream data for %s: %v", e.Symbol, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
