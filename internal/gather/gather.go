// Package gather fetches historical market data from external providers into
// the local bar cache. Gathering is the one network-facing, failure-prone
// step of the system; everything downstream operates on the materialized
// cache.
package gather

import (
	"context"
	"time"
)

// Gatherer is the interface for all data gathering processes.
type Gatherer interface {
	// Name returns the gatherer identifier.
	Name() string
	// Run executes one gathering pass. It returns when the pass completes or
	// ctx is cancelled.
	Run(ctx context.Context) error
}

// DateRange represents a time range for data fetching.
type DateRange struct {
	Start time.Time
	End   time.Time
}
