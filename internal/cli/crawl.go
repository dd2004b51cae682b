package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/adapters"
	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/cache"
	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/crawl"
	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/model"
	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/output"
	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/pipeline"
	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/util"
)

var (
	site         string
	query        string
	limit        int
	outDir       string
	concurrency  int
	minDelay     time.Duration
	maxDelay     time.Duration
	maxRetries   int
	crawlTimeout time.Duration
	httpProxy    string
	httpsProxy   string
	useCache     bool
	noRobots     bool
)

// crawlCmd represents the crawl command
var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Search a marketplace and extract every matching eSIM listing",
	Long: `Crawl runs the full batch pipeline:
- Search the marketplace for the query and collect product URLs
- Fetch each detail page with a bounded worker pool, politeness delays,
  per-domain rate limiting and bounded retries
- Extract a typed record per listing with field-level evidence
- Write results.jsonl, results.csv and failed.jsonl to the output directory

Example:
  esimprice crawl --query "日本 eSIM"
  esimprice crawl --query "japan esim" --limit 50 --concurrency 5 --out ./out`,
	RunE: runCrawl,
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	crawlCmd.Flags().StringVar(&site, "site", "amazon_jp", "marketplace to crawl")
	crawlCmd.Flags().StringVar(&query, "query", "", "search query (required)")
	crawlCmd.Flags().IntVar(&limit, "limit", 30, "maximum number of listings to crawl (1-200)")
	crawlCmd.Flags().StringVar(&outDir, "out", "./out", "output directory")
	crawlCmd.Flags().IntVar(&concurrency, "concurrency", 3, "number of concurrent workers (1-8)")
	crawlCmd.Flags().DurationVar(&minDelay, "min-delay", 1*time.Second, "minimum politeness delay before each target")
	crawlCmd.Flags().DurationVar(&maxDelay, "max-delay", 3*time.Second, "maximum politeness delay before each target")
	crawlCmd.Flags().IntVar(&maxRetries, "max-retries", 3, "attempts per target before recording a failure (1-10)")
	crawlCmd.Flags().DurationVar(&crawlTimeout, "timeout", 30*time.Minute, "total timeout for the batch")
	crawlCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	crawlCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	crawlCmd.Flags().BoolVar(&useCache, "cache", false, "cache detail pages in memory for the run")
	crawlCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")

	_ = crawlCmd.MarkFlagRequired("query")
}

func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Flags win over file and environment values.
	applyCrawlFlags(cmd, cfg)

	if limit < 1 || limit > 200 {
		return &model.ConfigError{Field: "limit", Reason: "must be between 1 and 200"}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Output.Verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), crawlTimeout)
	defer cancel()

	var robots *util.RobotsChecker
	if cfg.Robots.Enabled {
		robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}
	var pageCache cache.Cache
	if cfg.Cache.Enabled {
		pageCache = cache.NewPageCache(cfg.Cache.TTL)
	}

	adapter, err := adapters.ForSite(cfg.Site, adapters.AmazonJPOptions{
		UserAgent:    cfg.HTTP.UserAgent,
		Timeout:      cfg.HTTP.Timeout,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		HTTPProxy:    httpProxy,
		HTTPSProxy:   httpsProxy,
		ArtifactDir:  filepath.Join(cfg.Output.Dir, "screenshots"),
		Cache:        pageCache,
		CacheTTL:     cfg.Cache.TTL,
		Robots:       robots,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(adapter, logger)
	defer func() { _ = p.Close() }()

	logger.Info("search",
		zap.String("site", cfg.Site),
		zap.String("query", query),
		zap.Int("limit", limit))

	targets, err := p.Search(ctx, query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(targets) == 0 {
		fmt.Fprintf(os.Stderr, "No listings found for query %q\n", query)
		return nil
	}
	logger.Info("targets collected", zap.Int("count", len(targets)))

	limiter := crawl.NewLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	orchestrator := crawl.NewOrchestrator(p, limiter, crawl.Config{
		Concurrency: cfg.Crawl.Concurrency,
		MinDelay:    cfg.Crawl.MinDelay,
		MaxDelay:    cfg.Crawl.MaxDelay,
		MaxRetries:  cfg.Crawl.MaxRetries,
	}, logger)

	result := orchestrator.Run(ctx, targets)

	// Outputs land only after the whole batch is terminal; a partial file
	// never masquerades as a finished run.
	jsonlPath := filepath.Join(cfg.Output.Dir, "results.jsonl")
	csvPath := filepath.Join(cfg.Output.Dir, "results.csv")
	failedPath := filepath.Join(cfg.Output.Dir, "failed.jsonl")

	if err := output.WriteJSONL(jsonlPath, result.Items); err != nil {
		return err
	}
	if err := output.WriteCSV(csvPath, result.Items); err != nil {
		return err
	}
	if err := output.WriteFailedJSONL(failedPath, result.Failures); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Crawled %d listings: %d extracted, %d failed\n",
		len(targets), len(result.Items), len(result.Failures))
	fmt.Fprintf(os.Stderr, "  %s\n", jsonlPath)
	fmt.Fprintf(os.Stderr, "  %s\n", csvPath)
	if len(result.Failures) > 0 {
		fmt.Fprintf(os.Stderr, "  %s\n", failedPath)
	}
	return nil
}

// applyCrawlFlags overrides config values with any flag the user set
// explicitly.
func applyCrawlFlags(cmd *cobra.Command, cfg *model.Config) {
	if cmd.Flags().Changed("site") {
		cfg.Site = site
	}
	if cmd.Flags().Changed("out") {
		cfg.Output.Dir = outDir
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Crawl.Concurrency = concurrency
	}
	if cmd.Flags().Changed("min-delay") {
		cfg.Crawl.MinDelay = minDelay
	}
	if cmd.Flags().Changed("max-delay") {
		cfg.Crawl.MaxDelay = maxDelay
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.Crawl.MaxRetries = maxRetries
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache.Enabled = useCache
	}
	if cmd.Flags().Changed("no-robots") {
		cfg.Robots.Enabled = !noRobots
	}
	if verbose {
		cfg.Output.Verbose = true
	}
}

// newLogger builds the batch logger. Verbose runs log at debug with
// development formatting; quiet runs log info and above.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
