// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var metricNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CacheTTLMS is how long an assembled profile stays fresh.
	CacheTTLMS int `koanf:"cache_ttl_ms"`

	// CacheMaxEntries bounds the profile cache; 0 means unbounded.
	CacheMaxEntries int `koanf:"cache_max_entries"`

	// Fetch settings for the rating authorities.
	FetchTimeoutMS    int    `koanf:"fetch_timeout_ms"`
	FetchRetries      int    `koanf:"fetch_retries"`
	FetchMaxBodyBytes int64  `koanf:"fetch_max_body_bytes"`
	UserAgent         string `koanf:"user_agent"`
	FIDEProfileURL    string `koanf:"fide_profile_url"`
	USCFProfileURL    string `koanf:"uscf_profile_url"`

	// HistoryYears is the length of the normalized rating history.
	HistoryYears int `koanf:"history_years"`

	// DebugSnippetChars bounds the raw document prefix returned in debug mode.
	DebugSnippetChars int `koanf:"debug_snippet_chars"`

	// MinPlausible and MaxPlausible bound credible ratings.
	MinPlausible int `koanf:"min_plausible"`
	MaxPlausible int `koanf:"max_plausible"`

	// BaselineRating fills histories with no data at all.
	BaselineRating int `koanf:"baseline_rating"`

	// PeakMargin is how far a documented value must beat the peak to replace it.
	PeakMargin int `koanf:"peak_margin"`

	// LabelWindow is how far after a number a STANDARD label may appear.
	LabelWindow int `koanf:"label_window"`

	// WarmWorkers is the number of background cache warmers.
	WarmWorkers int `koanf:"warm_workers"`

	// WarmQueueCapacity bounds the ids waiting to be warmed.
	WarmQueueCapacity int `koanf:"warm_queue_capacity"`

	// Metrics naming and latency buckets (milliseconds).
	MetricsNamespace string    `koanf:"metrics_namespace"`
	MetricsSubsystem string    `koanf:"metrics_subsystem"`
	MetricsBuckets   []float64 `koanf:"metrics_buckets_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		CacheTTLMS:        3_600_000,
		CacheMaxEntries:   10_000,
		FetchTimeoutMS:    5_000,
		FetchRetries:      1,
		FetchMaxBodyBytes: 2 << 20,
		UserAgent:         "Mozilla/5.0 (compatible; ratingscope/1.0)",
		FIDEProfileURL:    "https://ratings.fide.com/profile/%s",
		USCFProfileURL:    "https://www.uschess.org/msa/MbrDtlMain.php?%s",
		HistoryYears:      10,
		DebugSnippetChars: 2_000,
		MinPlausible:      800,
		MaxPlausible:      3_000,
		BaselineRating:    1_600,
		PeakMargin:        20,
		LabelWindow:       80,
		WarmWorkers:       4,
		WarmQueueCapacity: 1_024,
		MetricsNamespace:  "ratingscope",
		MetricsSubsystem:  "profiles",
	}
}

// CacheTTL returns CacheTTLMS as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMS) * time.Millisecond
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CacheTTLMS <= 0:
		return fmt.Errorf("%w: cache_ttl_ms must be positive", ErrInvalidConfig)
	case c.FetchTimeoutMS <= 0:
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	case c.FetchRetries < 0:
		return fmt.Errorf("%w: fetch_retries must not be negative", ErrInvalidConfig)
	case c.HistoryYears <= 0:
		return fmt.Errorf("%w: history_years must be positive", ErrInvalidConfig)
	case c.MinPlausible <= 0 || c.MaxPlausible <= c.MinPlausible:
		return fmt.Errorf("%w: plausible range %d-%d", ErrInvalidConfig, c.MinPlausible, c.MaxPlausible)
	case c.BaselineRating < c.MinPlausible || c.BaselineRating > c.MaxPlausible:
		return fmt.Errorf("%w: baseline_rating %d outside plausible range", ErrInvalidConfig, c.BaselineRating)
	case c.WarmWorkers <= 0 || c.WarmQueueCapacity <= 0:
		return fmt.Errorf("%w: warm_workers and warm_queue_capacity must be positive", ErrInvalidConfig)
	case !metricNameRe.MatchString(c.MetricsNamespace) || !metricNameRe.MatchString(c.MetricsSubsystem):
		return fmt.Errorf("%w: metrics_namespace and metrics_subsystem must be metric names", ErrInvalidConfig)
	case !ascending(c.MetricsBuckets):
		return fmt.Errorf("%w: metrics_buckets_ms must be positive and increasing", ErrInvalidConfig)
	case strings.Count(c.FIDEProfileURL, "%s") != 1 || strings.Count(c.USCFProfileURL, "%s") != 1:
		return fmt.Errorf("%w: profile urls need exactly one %%s", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// ascending reports whether b is strictly increasing and positive. An empty
// slice keeps the default buckets.
func ascending(b []float64) bool {
	for i, v := range b {
		if v <= 0 || (i > 0 && v <= b[i-1]) {
			return false
		}
	}
	return true
}
