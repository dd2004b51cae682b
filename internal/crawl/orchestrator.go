package crawl

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/model"
)

// Fetcher is the fetch-and-extract collaborator: it turns one target into
// one ProductRecord or fails with a retryable error.
type Fetcher interface {
	FetchDetail(ctx context.Context, target model.CrawlTarget) (*model.ProductRecord, error)
}

// Config bounds one batch run. Values are validated upstream; see
// model.Config.Validate.
type Config struct {
	Concurrency int
	MinDelay    time.Duration
	MaxDelay    time.Duration
	MaxRetries  int
}

// Orchestrator drives a bounded worker pool over a target list. Each target
// moves Pending → Delayed → Fetching and terminates in exactly one of
// Succeeded or Failed; a failed target never aborts its siblings.
type Orchestrator struct {
	fetcher Fetcher
	limiter *Limiter
	cfg     Config
	logger  *zap.Logger
}

// NewOrchestrator creates an orchestrator. A nil limiter disables
// per-domain rate limiting; a nil logger is replaced with a no-op.
func NewOrchestrator(fetcher Fetcher, limiter *Limiter, cfg Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		fetcher: fetcher,
		limiter: limiter,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run crawls every target and blocks until all of them are terminal. The
// returned batch holds len(targets) outcomes split across items and
// failures.
func (o *Orchestrator) Run(ctx context.Context, targets []model.CrawlTarget) *model.CrawlBatchResult {
	o.logger.Info("start crawl details", zap.Int("targets", len(targets)))

	jobs := make([]job, len(targets))
	for i, target := range targets {
		jobs[i] = &targetJob{orchestrator: o, target: target}
	}

	outcomes := newPool(ctx, o.cfg.Concurrency).run(jobs)

	result := &model.CrawlBatchResult{
		Items:    make([]model.ProductRecord, 0, len(outcomes)),
		Failures: make([]model.CrawlError, 0),
	}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			result.Failures = append(result.Failures, o.toCrawlError(outcome))
			continue
		}
		result.Items = append(result.Items, *outcome.Record)
	}

	o.logger.Info("batch complete",
		zap.Int("items", len(result.Items)),
		zap.Int("failures", len(result.Failures)))
	return result
}

// toCrawlError downgrades a terminal error to the structured failure row.
// The artifact path is taken from the typed error when available, falling
// back to the legacy message marker.
func (o *Orchestrator) toCrawlError(outcome Outcome) model.CrawlError {
	err := outcome.Err

	kind := "Error"
	artifact := ""
	var fetchErr *model.FetchError
	var extractErr *model.ExtractionError
	switch {
	case errors.As(err, &extractErr):
		kind = "ExtractionError"
		artifact = extractErr.ArtifactPath
	case errors.As(err, &fetchErr):
		kind = "FetchError"
		artifact = fetchErr.ArtifactPath
	}
	if artifact == "" {
		artifact = model.ArtifactPathFromMessage(err.Error())
	}

	return model.CrawlError{
		ProductURL:   outcome.Target.ProductURL,
		ExternalID:   outcome.Target.ExternalID,
		ErrorKind:    kind,
		ErrorMessage: err.Error(),
		ArtifactPath: artifact,
	}
}

// targetJob carries one target through delay, fetch and retries.
type targetJob struct {
	orchestrator *Orchestrator
	target       model.CrawlTarget
}

func (j *targetJob) execute(ctx context.Context) Outcome {
	o := j.orchestrator

	// Politeness jitter is paid once per target, before the first attempt;
	// retries only wait their backoff.
	delay := o.politenessDelay()
	if o.limiter != nil {
		if err := o.limiter.WaitWithDelay(ctx, j.target.ProductURL, delay); err != nil {
			return Outcome{Target: j.target, Err: err}
		}
	} else if delay > 0 {
		select {
		case <-ctx.Done():
			return Outcome{Target: j.target, Err: ctx.Err()}
		case <-time.After(delay):
		}
	}

	record, err := fetchWithRetry(ctx, o.fetcher, j.target, o.cfg.MaxRetries, o.logger)
	if err != nil {
		o.logger.Warn("target failed",
			zap.String("url", j.target.ProductURL),
			zap.Error(err))
		return Outcome{Target: j.target, Err: err}
	}
	return Outcome{Target: j.target, Record: record}
}

// politenessDelay draws a uniform duration from [MinDelay, MaxDelay].
func (o *Orchestrator) politenessDelay() time.Duration {
	if o.cfg.MaxDelay <= o.cfg.MinDelay {
		return o.cfg.MinDelay
	}
	return o.cfg.MinDelay + rand.N(o.cfg.MaxDelay-o.cfg.MinDelay)
}
