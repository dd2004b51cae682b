package crawl

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/model"
)

// Overridable in tests.
var (
	backoffBase = 1 * time.Second
	backoffCap  = 8 * time.Second
)

// fetchWithRetry runs the fetch-and-extract collaborator through a bounded
// retry loop. Waits between attempts grow exponentially from backoffBase to
// backoffCap with jitter. The last underlying error is returned verbatim —
// callers need the real cause, not a retries-exhausted wrapper.
func fetchWithRetry(ctx context.Context, fetcher Fetcher, target model.CrawlTarget, maxAttempts int, logger *zap.Logger) (*model.ProductRecord, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = backoffBase
	bo.MaxInterval = backoffCap
	bo.MaxElapsedTime = 0
	bo.Reset()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		record, err := fetcher.FetchDetail(ctx, target)
		if err == nil {
			return record, nil
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}
		logger.Warn("attempt failed, retrying",
			zap.String("url", target.ProductURL),
			zap.Int("attempt", attempt),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, lastErr
		case <-time.After(bo.NextBackOff()):
		}
	}
	return nil, lastErr
}
