package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/cache"
	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/extract"
	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/model"
	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/util"
)

// SiteAmazonJP is the only site selector currently implemented.
const SiteAmazonJP = "amazon_jp"

const (
	defaultBaseURL = "https://www.amazon.co.jp"

	// Amazon serves the desktop page to a browser-looking agent only.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

	maxPriceCandidates = 12
	pageTextLimit      = 5000
)

var (
	asinPattern     = regexp.MustCompile(`/(?:dp|gp/product)/([A-Z0-9]{10})`)
	bareASINPattern = regexp.MustCompile(`([A-Z0-9]{10})`)
)

// ExtractASIN pulls the 10-character Amazon identifier out of a product URL.
func ExtractASIN(rawURL string) string {
	if m := asinPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

// AmazonJPOptions configures the Amazon JP adapter. The zero value is
// usable; BaseURL exists so tests can point the adapter at a fake server.
type AmazonJPOptions struct {
	BaseURL      string
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	HTTPProxy    string
	HTTPSProxy   string
	ArtifactDir  string
	Cache        cache.Cache
	CacheTTL     time.Duration
	Robots       *util.RobotsChecker
	Logger       *zap.Logger
}

// AmazonJP crawls amazon.co.jp search results and product detail pages over
// plain HTTP and reduces them to the raw material the extraction engine
// consumes.
type AmazonJP struct {
	baseURL      string
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	artifactDir  string
	cache        cache.Cache
	cacheTTL     time.Duration
	robots       *util.RobotsChecker
	logger       *zap.Logger

	canonicalProduct *regexp.Regexp
}

// NewAmazonJP creates the adapter.
func NewAmazonJP(opts AmazonJPOptions) *AmazonJP {
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 4_000_000
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy),
		},
	}

	return &AmazonJP{
		baseURL:      baseURL,
		client:       client,
		userAgent:    userAgent,
		maxBodyBytes: maxBody,
		artifactDir:  opts.ArtifactDir,
		cache:        opts.Cache,
		cacheTTL:     opts.CacheTTL,
		robots:       opts.Robots,
		logger:       logger,
		canonicalProduct: regexp.MustCompile(
			regexp.QuoteMeta(baseURL) + `/(?:[^/]+/)?(?:dp|gp/product)/[A-Z0-9]{10}`),
	}
}

// Name returns the site selector.
func (a *AmazonJP) Name() string { return SiteAmazonJP }

// Close releases idle connections.
func (a *AmazonJP) Close() error {
	a.client.CloseIdleConnections()
	return nil
}

// Search walks paginated search results until limit targets are collected.
// Targets are deduplicated by canonical URL and by ASIN; the search card's
// price text is kept as a low-confidence hint.
func (a *AmazonJP) Search(ctx context.Context, query string, limit int) ([]model.CrawlTarget, error) {
	maxPages := limit/20 + 3
	if maxPages > 10 {
		maxPages = 10
	}
	if maxPages < 2 {
		maxPages = 2
	}

	var targets []model.CrawlTarget
	seenURLs := make(map[string]bool)
	seenASINs := make(map[string]bool)

	for pageNo := 1; pageNo <= maxPages && len(targets) < limit; pageNo++ {
		searchURL := fmt.Sprintf("%s/s?k=%s&page=%d", a.baseURL, url.QueryEscape(query), pageNo)
		body, err := a.fetchHTML(ctx, searchURL, false)
		if err != nil {
			return nil, &model.FetchError{URL: searchURL, Err: err}
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return nil, &model.FetchError{URL: searchURL, Err: err}
		}

		doc.Find("div[data-component-type='s-search-result']").EachWithBreak(func(_ int, card *goquery.Selection) bool {
			link := card.Find("h2 a[href], a.a-link-normal.s-no-outline[href]").First()
			href, ok := link.Attr("href")
			if !ok || href == "" {
				return true
			}
			full := a.normalizeProductURL(href)
			if full == "" || seenURLs[full] {
				return true
			}
			asin, _ := card.Attr("data-asin")
			if asin == "" {
				asin = ExtractASIN(full)
			}
			if asin != "" && seenASINs[asin] {
				return true
			}

			target := model.CrawlTarget{ProductURL: full, ExternalID: asin}
			priceText := firstText(card, "span.a-price span.a-offscreen", ".a-price .a-offscreen")
			if priceText != "" {
				if amount, currency, ok := extract.ParsePrice(priceText); ok &&
					(currency == extract.CurrencyJPY || currency == extract.CurrencyUnknown) {
					target.SearchPriceJPY = &amount
				}
				target.SearchPriceText = priceText
			}

			seenURLs[full] = true
			if asin != "" {
				seenASINs[asin] = true
			}
			targets = append(targets, target)
			return len(targets) < limit
		})

		if len(targets) >= limit {
			break
		}

		// Sparse result pages sometimes render without the card wrapper;
		// sweep bare product links as a fallback.
		for _, selector := range []string{
			"div.s-main-slot a.a-link-normal.s-no-outline",
			"h2 a.a-link-normal",
			"a.a-link-normal[href*='/dp/']",
		} {
			doc.Find(selector).EachWithBreak(func(_ int, link *goquery.Selection) bool {
				href, ok := link.Attr("href")
				if !ok || href == "" {
					return true
				}
				full := a.normalizeProductURL(href)
				if full == "" || seenURLs[full] {
					return true
				}
				asin := ExtractASIN(full)
				if asin != "" && seenASINs[asin] {
					return true
				}
				seenURLs[full] = true
				if asin != "" {
					seenASINs[asin] = true
				}
				targets = append(targets, model.CrawlTarget{ProductURL: full, ExternalID: asin})
				return len(targets) < limit
			})
			if len(targets) >= limit {
				break
			}
		}
	}

	a.logger.Info("search finished",
		zap.String("query", query),
		zap.Int("candidates", len(targets)))
	return targets, nil
}

// FetchRaw reduces a product detail page to ordered text blocks plus price
// candidates. A page that yields no visible text at all is treated as a
// parse failure; its body is kept as a diagnostic artifact.
func (a *AmazonJP) FetchRaw(ctx context.Context, target model.CrawlTarget) (*model.RawListing, error) {
	body, err := a.fetchHTML(ctx, target.ProductURL, true)
	if err != nil {
		return nil, &model.FetchError{URL: target.ProductURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &model.FetchError{
			URL:          target.ProductURL,
			ArtifactPath: a.captureArtifact(target, body),
			Err:          err,
		}
	}

	pageText := extract.NormalizeText(visibleText(doc))
	if pageText == "" {
		return nil, &model.FetchError{
			URL:          target.ProductURL,
			ArtifactPath: a.captureArtifact(target, body),
			Err:          errors.New("no recognizable listing content"),
		}
	}

	raw := &model.RawListing{
		Title:           firstText(doc.Selection, "#productTitle", "#title", "h1.a-size-large"),
		Seller:          firstText(doc.Selection, "#sellerProfileTriggerId", "#merchantInfo", "a#bylineInfo"),
		Brand:           a.extractBrand(doc),
		TextBlocks:      a.collectTextBlocks(doc, pageText),
		PriceCandidates: a.collectPriceCandidates(doc),
	}

	asin := target.ExternalID
	if asin == "" {
		asin = ExtractASIN(target.ProductURL)
	}
	if asin == "" {
		asin = extractASINFromDetails(doc)
	}
	raw.ExternalID = asin

	return raw, nil
}

// collectTextBlocks gathers the description-bearing DOM locations in a fixed
// order, then appends the whole visible page text as a catch-all block.
func (a *AmazonJP) collectTextBlocks(doc *goquery.Document, pageText string) []string {
	var blocks []string

	for _, selector := range []string{
		"#feature-bullets li",
		"#productDescription",
		"#aplus_feature_div",
		"#productDetails_feature_div tr",
		"#detailBullets_feature_div li",
	} {
		doc.Find(selector).Each(func(_ int, node *goquery.Selection) {
			if text := strings.TrimSpace(node.Text()); text != "" {
				blocks = append(blocks, text)
			}
		})
	}

	doc.Find("meta[name='description']").Each(func(_ int, node *goquery.Selection) {
		if content, ok := node.Attr("content"); ok && strings.TrimSpace(content) != "" {
			blocks = append(blocks, strings.TrimSpace(content))
		}
	})
	doc.Find("img[alt]").Each(func(_ int, node *goquery.Selection) {
		if alt, ok := node.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			blocks = append(blocks, strings.TrimSpace(alt))
		}
	})

	if runes := []rune(pageText); len(runes) > pageTextLimit {
		pageText = string(runes[:pageTextLimit])
	}
	blocks = append(blocks, pageText)

	return blocks
}

// collectPriceCandidates gathers price-bearing DOM locations in priority
// order, falling back to any offscreen price node, capped at
// maxPriceCandidates.
func (a *AmazonJP) collectPriceCandidates(doc *goquery.Document) []string {
	var candidates []string

	for _, selector := range []string{
		"#corePrice_feature_div .a-offscreen",
		"#corePriceDisplay_desktop_feature_div .a-offscreen",
		"#apex_desktop .a-price .a-offscreen",
		"#tp_price_block_total_price_ww .a-offscreen",
		"#buybox .a-price .a-offscreen",
		"#priceblock_ourprice",
		"#priceblock_dealprice",
		"#price_inside_buybox",
		"#newBuyBoxPrice",
	} {
		doc.Find(selector).Each(func(_ int, node *goquery.Selection) {
			if text := strings.TrimSpace(node.Text()); text != "" {
				candidates = append(candidates, text)
			}
		})
	}

	if len(candidates) == 0 {
		doc.Find(".a-price .a-offscreen").Each(func(_ int, node *goquery.Selection) {
			if text := strings.TrimSpace(node.Text()); text != "" {
				candidates = append(candidates, text)
			}
		})
	}

	if len(candidates) > maxPriceCandidates {
		candidates = candidates[:maxPriceCandidates]
	}
	return candidates
}

// extractBrand tries the byline, then the brand row of the overview table.
func (a *AmazonJP) extractBrand(doc *goquery.Document) string {
	if text := firstText(doc.Selection, "#bylineInfo"); text != "" {
		return text
	}

	var brand string
	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if strings.Contains(row.Find("th").Text(), "ブランド") {
			brand = strings.TrimSpace(row.Find("td").Text())
			return false
		}
		return true
	})
	if brand != "" {
		return brand
	}
	return firstText(doc.Selection, "#productOverview_feature_div td")
}

func extractASINFromDetails(doc *goquery.Document) string {
	var asin string
	doc.Find("#detailBullets_feature_div li, #productDetails_detailBullets_sections1 tr").
		EachWithBreak(func(_ int, row *goquery.Selection) bool {
			text := strings.TrimSpace(row.Text())
			if !strings.Contains(text, "ASIN") {
				return true
			}
			if m := bareASINPattern.FindStringSubmatch(text); m != nil {
				asin = m[1]
				return false
			}
			return true
		})
	return asin
}

// normalizeProductURL canonicalizes a product link to its /dp/ASIN form,
// rejecting off-site and non-product links.
func (a *AmazonJP) normalizeProductURL(href string) string {
	if !strings.Contains(href, "/dp/") && !strings.Contains(href, "/gp/product/") {
		return ""
	}
	if strings.HasPrefix(href, "/") {
		href = a.baseURL + href
	} else if !strings.HasPrefix(href, a.baseURL) {
		return ""
	}
	if idx := strings.Index(href, "?"); idx >= 0 {
		href = href[:idx]
	}
	if m := a.canonicalProduct.FindString(href); m != "" {
		return m
	}
	return href
}

// fetchHTML performs one GET with the storefront headers, honoring the
// robots gate and, for detail pages, the response cache.
func (a *AmazonJP) fetchHTML(ctx context.Context, rawURL string, cacheable bool) ([]byte, error) {
	if a.robots != nil {
		allowed, _, err := a.robots.CanFetch(ctx, rawURL)
		if err == nil && !allowed {
			return nil, fmt.Errorf("blocked by robots.txt: %s", rawURL)
		}
	}

	cacheKey := cache.Key(rawURL)
	if cacheable && a.cache != nil {
		if body, found := a.cache.Get(cacheKey); found {
			a.logger.Debug("cache hit", zap.String("url", rawURL))
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja-JP,ja;q=0.9,en-US;q=0.8,en;q=0.7")
	// Pins prices to yen for sessions without prior storefront state.
	req.AddCookie(&http.Cookie{Name: "i18n-prefs", Value: "JPY"})

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, a.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if cacheable && a.cache != nil {
		_ = a.cache.Set(cacheKey, body, a.cacheTTL)
	}
	return body, nil
}

// captureArtifact writes the fetched page body next to the batch output so
// a failed extraction can be inspected later. Returns "" when no artifact
// directory is configured or the write fails.
func (a *AmazonJP) captureArtifact(target model.CrawlTarget, body []byte) string {
	if a.artifactDir == "" {
		return ""
	}
	if err := os.MkdirAll(a.artifactDir, 0o755); err != nil {
		a.logger.Warn("create artifact dir", zap.Error(err))
		return ""
	}
	id := target.ExternalID
	if id == "" {
		id = "unknown"
	}
	path := filepath.Join(a.artifactDir, "detail_error_"+id+".html")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		a.logger.Warn("write artifact", zap.Error(err))
		return ""
	}
	return path
}

// visibleText flattens the rendered text of the page, skipping script,
// style and template subtrees that doc.Text() would leak into the output.
func visibleText(doc *goquery.Document) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range doc.Nodes {
		walk(node)
	}
	return sb.String()
}

// firstText returns the first non-empty text among the ranked selectors.
func firstText(root *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		node := root.Find(selector).First()
		if text := strings.TrimSpace(node.Text()); text != "" {
			return text
		}
	}
	return ""
}
