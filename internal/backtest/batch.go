package backtest

import (
	"context"
	"sync"
	"time"
)

// BatchItem is the outcome of one symbol in a watchlist run: either a result
// or an error marker. A failed symbol never aborts the batch.
type BatchItem struct {
	Symbol string
	Result *Result
	Err    error
}

// RunBatch evaluates the named rule for every watchlist symbol over the same
// date range. Symbols are processed by a bounded worker pool; since every
// pipeline stage is pure there is no cross-run state to guard. The returned
// slice is ordered like the input.
func (bt *Backtester) RunBatch(ctx context.Context, symbols []string, ruleName string, start, end time.Time, cfg Config, maxWorkers int) []BatchItem {
	items := make([]BatchItem, len(symbols))

	idxCh := make(chan int, len(symbols))
	for i := range symbols {
		idxCh <- i
	}
	close(idxCh)

	workers := maxWorkers
	if workers <= 0 || workers > len(symbols) {
		workers = len(symbols)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxCh {
				if ctx.Err() != nil {
					items[i] = BatchItem{Symbol: symbols[i], Err: ctx.Err()}
					continue
				}
				res, err := bt.Run(ctx, symbols[i], ruleName, start, end, cfg)
				if err != nil {
					bt.log.Error("symbol failed", "symbol", symbols[i], "err", err)
					items[i] = BatchItem{Symbol: symbols[i], Err: err}
					continue
				}
				items[i] = BatchItem{Symbol: symbols[i], Result: res}
			}
		}()
	}
	wg.Wait()

	return items
}
