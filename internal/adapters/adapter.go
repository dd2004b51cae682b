package adapters

import (
	"context"
	"fmt"

	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/model"
)

// Marketplace is the capability a listing source must provide. A new
// marketplace is a new implementation of this interface, not a new core.
type Marketplace interface {
	// Name returns the site selector this adapter answers to.
	Name() string

	// Search returns up to limit crawl targets for the query, deduplicated
	// by normalized URL and by external identifier, in result order.
	Search(ctx context.Context, query string, limit int) ([]model.CrawlTarget, error)

	// FetchRaw reduces one listing's detail page to ordered text blocks,
	// price candidates and the passthrough selector fields.
	FetchRaw(ctx context.Context, target model.CrawlTarget) (*model.RawListing, error)

	// Close releases the adapter's network resources.
	Close() error
}

// ForSite resolves a site selector to its adapter. Unknown selectors are a
// configuration error, caught before any crawling starts.
func ForSite(site string, opts AmazonJPOptions) (Marketplace, error) {
	switch site {
	case SiteAmazonJP:
		return NewAmazonJP(opts), nil
	default:
		return nil, &model.ConfigError{Field: "site", Reason: fmt.Sprintf("unsupported site %q", site)}
	}
}
