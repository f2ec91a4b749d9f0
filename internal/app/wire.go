package service

import (
	"github.com/okian/ratingscope/internal/adapters/fetch"
	"github.com/okian/ratingscope/internal/config"
	"github.com/okian/ratingscope/internal/domain/extract"
	"github.com/okian/ratingscope/internal/domain/model"
	"github.com/okian/ratingscope/pkg/logger"
)

// ExtractOptions maps the heuristic settings of cfg to extractor options.
func ExtractOptions(cfg *config.Config) []extract.Option {
	return []extract.Option{
		extract.WithPlausibleRange(model.Range{Min: cfg.MinPlausible, Max: cfg.MaxPlausible}),
		extract.WithPeakMargin(cfg.PeakMargin),
		extract.WithLabelWindow(cfg.LabelWindow),
	}
}

// NewHTTPFetcher builds the authority fetcher described by cfg.
func NewHTTPFetcher(cfg *config.Config, log logger.Logger) *fetch.HTTPFetcher {
	return fetch.NewHTTPFetcher(log,
		fetch.WithTimeout(cfg.FetchTimeout()),
		fetch.WithRetries(cfg.FetchRetries),
		fetch.WithMaxBodyBytes(cfg.FetchMaxBodyBytes),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithProfileURL(fetch.AuthorityFIDE, cfg.FIDEProfileURL),
		fetch.WithProfileURL(fetch.AuthorityUSCF, cfg.USCFProfileURL),
	)
}

// NewFromConfig builds a Service fetching over HTTP with every setting taken
// from cfg. Extra options are applied last.
func NewFromConfig(cfg *config.Config, log logger.Logger, opts ...Option) *Service {
	base := []Option{
		WithLogger(log),
		WithFetcher(NewHTTPFetcher(cfg, log.Named("fetch"))),
		WithCacheTTL(cfg.CacheTTL()),
		WithCacheMaxEntries(cfg.CacheMaxEntries),
		WithHistoryYears(cfg.HistoryYears),
		WithBaselineRating(cfg.BaselineRating),
		WithSnippetChars(cfg.DebugSnippetChars),
		WithExtractOptions(ExtractOptions(cfg)...),
	}
	return New(append(base, opts...)...)
}
