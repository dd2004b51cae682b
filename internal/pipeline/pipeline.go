package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/adapters"
	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/extract"
	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/model"
)

// Pipeline composes the marketplace adapter with the extraction engine.
// It is the fetch-and-extract collaborator the crawl orchestrator drives.
type Pipeline struct {
	adapter adapters.Marketplace
	engine  *extract.Engine
	logger  *zap.Logger
}

// NewPipeline creates a pipeline over the given adapter.
func NewPipeline(adapter adapters.Marketplace, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		adapter: adapter,
		engine:  extract.NewEngine(),
		logger:  logger,
	}
}

// Search delegates target discovery to the adapter.
func (p *Pipeline) Search(ctx context.Context, query string, limit int) ([]model.CrawlTarget, error) {
	return p.adapter.Search(ctx, query, limit)
}

// FetchDetail fetches one listing and extracts its typed record. A failure
// while producing the raw listing surfaces as an ExtractionError wrapping
// the cause, carrying through any diagnostic artifact the adapter wrote.
func (p *Pipeline) FetchDetail(ctx context.Context, target model.CrawlTarget) (*model.ProductRecord, error) {
	raw, err := p.adapter.FetchRaw(ctx, target)
	if err != nil {
		artifact := ""
		var fetchErr *model.FetchError
		if errors.As(err, &fetchErr) {
			artifact = fetchErr.ArtifactPath
		}
		return nil, &model.ExtractionError{
			URL:          target.ProductURL,
			ArtifactPath: artifact,
			Err:          err,
		}
	}

	record := p.engine.Extract(target, raw)
	p.logger.Debug("extracted listing",
		zap.String("url", target.ProductURL),
		zap.String("external_id", record.ExternalID))
	return &record, nil
}

// Close releases the adapter.
func (p *Pipeline) Close() error {
	return p.adapter.Close()
}
