package model

import "time"

// Config holds all runtime configuration. Values are layered from defaults,
// the config file, ESIMPRICE_* environment variables, and CLI flags.
type Config struct {
	Site   string       `yaml:"site" mapstructure:"site"`
	HTTP   HTTPConfig   `yaml:"http" mapstructure:"http"`
	Crawl  CrawlConfig  `yaml:"crawl" mapstructure:"crawl"`
	Rate   RateConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Robots RobotsConfig `yaml:"robots" mapstructure:"robots"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// HTTPConfig configures the marketplace HTTP client.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// CrawlConfig bounds the orchestrator.
type CrawlConfig struct {
	Concurrency int           `yaml:"concurrency" mapstructure:"concurrency"`
	MinDelay    time.Duration `yaml:"min_delay" mapstructure:"min_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" mapstructure:"max_delay"`
	MaxRetries  int           `yaml:"max_retries" mapstructure:"max_retries"`
}

// RateConfig configures the per-domain request limiter.
type RateConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig configures the detail-page response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// RobotsConfig configures robots.txt compliance checking.
type RobotsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// OutputConfig configures where batch results land.
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Site: "amazon_jp",
		HTTP: HTTPConfig{
			Timeout:      25 * time.Second,
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
			MaxBodyBytes: 4_000_000,
		},
		Crawl: CrawlConfig{
			Concurrency: 3,
			MinDelay:    1 * time.Second,
			MaxDelay:    3 * time.Second,
			MaxRetries:  3,
		},
		Rate: RateConfig{
			RequestsPerSecond: 1.0,
			Burst:             2,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     15 * time.Minute,
		},
		Robots: RobotsConfig{
			Enabled: true,
		},
		Output: OutputConfig{
			Dir: "./out",
		},
	}
}

// Validate checks the bounds the orchestrator depends on. All violations are
// fatal before any crawling begins.
func (c *Config) Validate() error {
	if c.Site != "amazon_jp" {
		return &ConfigError{Field: "site", Reason: "only amazon_jp is implemented"}
	}
	if c.Crawl.Concurrency < 1 || c.Crawl.Concurrency > 8 {
		return &ConfigError{Field: "concurrency", Reason: "must be between 1 and 8"}
	}
	if c.Crawl.MinDelay < 0 || c.Crawl.MaxDelay < 0 {
		return &ConfigError{Field: "min_delay/max_delay", Reason: "must not be negative"}
	}
	if c.Crawl.MinDelay > c.Crawl.MaxDelay {
		return &ConfigError{Field: "min_delay", Reason: "must not exceed max_delay"}
	}
	if c.Crawl.MaxRetries < 1 || c.Crawl.MaxRetries > 10 {
		return &ConfigError{Field: "max_retries", Reason: "must be between 1 and 10"}
	}
	return nil
}
