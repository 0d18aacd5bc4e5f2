package crawl

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/praxisdata/clinic-enrich/internal/model"
)

// PoolConfig sizes the batched crawl worker pool.
type PoolConfig struct {
	// Workers is the fixed pool size within a batch. Default 4.
	Workers int
	// BatchSize is how many businesses are in flight per batch. Default 10.
	BatchSize int
	// BatchPause is the delay between batches. Defaults to a randomized
	// 3–5s to stay under target sites' implicit rate tolerance.
	BatchPause func() time.Duration
}

func (cfg PoolConfig) withDefaults() PoolConfig {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.BatchPause == nil {
		cfg.BatchPause = func() time.Duration {
			return 3*time.Second + time.Duration(rand.Int64N(int64(2*time.Second)))
		}
	}
	return cfg
}

// CrawlAll runs independent crawls for each record through a fixed-size
// worker pool, one batch at a time, pausing between batches. Crawls share no
// mutable state; results are collected per business and keyed by input row
// index only after each batch's workers complete. A failed crawl is recorded
// as that business's result and never affects siblings.
func CrawlAll(ctx context.Context, c *Crawler, records []model.BusinessRecord, cfg PoolConfig) map[int]model.CrawlResult {
	cfg = cfg.withDefaults()
	results := make(map[int]model.CrawlResult, len(records))

	for start := 0; start < len(records); start += cfg.BatchSize {
		end := min(start+cfg.BatchSize, len(records))
		batch := records[start:end]

		zap.L().Info("crawl: processing batch",
			zap.Int("from", batch[0].Row),
			zap.Int("to", batch[len(batch)-1].Row),
			zap.Int("size", len(batch)),
		)

		var mu sync.Mutex
		batchResults := make(map[int]model.CrawlResult, len(batch))

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Workers)
		for _, rec := range batch {
			g.Go(func() error {
				res := c.CrawlBusiness(gCtx, rec)
				mu.Lock()
				batchResults[rec.Row] = res
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		for row, res := range batchResults {
			results[row] = res
		}

		if end < len(records) {
			if !sleepCtx(ctx, cfg.BatchPause()) {
				break
			}
		}
	}

	return results
}
