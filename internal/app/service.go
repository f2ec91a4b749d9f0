// Package service composes the rating cache and the profile assembler into
// the service used by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"maps"
	"strings"
	"sync/atomic"
	"time"

	"github.com/okian/ratingscope/internal/adapters/fetch"
	"github.com/okian/ratingscope/internal/domain/cache"
	"github.com/okian/ratingscope/internal/domain/extract"
	"github.com/okian/ratingscope/internal/domain/history"
	"github.com/okian/ratingscope/internal/domain/model"
	"github.com/okian/ratingscope/internal/domain/profile"
	"github.com/okian/ratingscope/internal/domain/trend"
	"github.com/okian/ratingscope/internal/domain/types"
	"github.com/okian/ratingscope/pkg/logger"
	"github.com/okian/ratingscope/pkg/metrics"
)

// ErrEmptyID is returned when a lookup has no player id.
var ErrEmptyID = errors.New("player id is required")

// Service answers profile lookups.
type Service struct {
	cache     cache.Cache[types.Assembly]
	assembler *profile.Assembler

	// Configuration
	fetcher        fetch.Fetcher
	cacheTTL       time.Duration
	cacheMaxSize   int
	historyYears   int
	baseline       int
	snippetChars   int
	now            func() time.Time
	rand           profile.Rand
	extractOptions []extract.Option

	// State
	startedAt time.Time
	lookups   atomic.Int64
	hits      atomic.Int64
	synthetic atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the document source. Without one every lookup is synthetic.
func WithFetcher(f fetch.Fetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}

// WithCacheTTL sets how long assembled records are memoized.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithCacheMaxEntries bounds the cache; non-positive means unbounded.
func WithCacheMaxEntries(n int) Option {
	return func(s *Service) {
		s.cacheMaxSize = n
	}
}

// WithHistoryYears sets the rating history window length.
func WithHistoryYears(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyYears = n
		}
	}
}

// WithBaselineRating sets the rating used when no data exists at all.
func WithBaselineRating(r int) Option {
	return func(s *Service) {
		if r > 0 {
			s.baseline = r
		}
	}
}

// WithSnippetChars bounds the debug snippet.
func WithSnippetChars(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.snippetChars = n
		}
	}
}

// WithClock sets the time source for the cache and the extraction year.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRand sets the random source for synthetic records.
func WithRand(r profile.Rand) Option {
	return func(s *Service) {
		s.rand = r
	}
}

// WithExtractOptions tunes the extraction heuristics.
func WithExtractOptions(opts ...extract.Option) Option {
	return func(s *Service) {
		s.extractOptions = append(s.extractOptions, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service and its pipeline.
func New(opts ...Option) *Service {
	s := &Service{
		cacheTTL:     time.Hour,
		cacheMaxSize: 10_000,
		historyYears: history.DefaultYears,
		baseline:     model.BaselineRating,
		now:          time.Now,
		logger:       logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.startedAt = s.now()
	s.cache = cache.NewInMemory[types.Assembly](
		cache.WithTTL(s.cacheTTL),
		cache.WithMaxSize(s.cacheMaxSize),
		cache.WithClock(s.now),
	)

	extractOpts := append([]extract.Option{extract.WithClock(s.now)}, s.extractOptions...)
	s.assembler = profile.New(s.fetcher,
		profile.WithExtractor(extract.New(extractOpts...)),
		profile.WithNormalizer(history.New(s.historyYears, s.baseline)),
		profile.WithClassifier(trend.New()),
		profile.WithRand(s.rand),
		profile.WithSnippetChars(s.snippetChars),
		profile.WithLogger(s.logger.Named("profile")),
	)

	return s
}

// Lookup returns the record for id, from the cache when fresh. The debug
// payload is attached only when debug is true. Errors are returned only for
// an empty id or when ctx ends while waiting on a load; unreachable or
// unusable profiles yield synthetic records.
func (s *Service) Lookup(ctx context.Context, id string, debug bool) (types.LookupResult, error) {
	if strings.TrimSpace(id) == "" {
		return types.LookupResult{}, ErrEmptyID
	}

	start := time.Now()
	// The shared load outlives any single caller.
	loadCtx := context.WithoutCancel(ctx)
	asm, cached, err := s.cache.GetOrLoad(ctx, id, func(context.Context) (types.Assembly, error) {
		out := s.assembler.Assemble(loadCtx, id)
		if out.Synthetic {
			s.synthetic.Add(1)
		}
		return out, nil
	})
	if err != nil {
		return types.LookupResult{}, err
	}

	s.lookups.Add(1)
	if cached {
		s.hits.Add(1)
	}
	metrics.RecordLookup(cached, float64(time.Since(start).Milliseconds()))
	metrics.UpdateCacheEntries(s.cache.Size())

	s.logger.Debug(ctx, "profile lookup",
		logger.String("id", id),
		logger.Bool("cached", cached),
		logger.Duration("took", time.Since(start)),
	)

	res := types.LookupResult{Record: asm.Record, Cached: cached}
	if debug {
		d := asm.Debug
		d.Stages = maps.Clone(asm.Debug.Stages)
		res.Debug = &d
	}
	return res, nil
}

// Invalidate drops the memoized record for id.
func (s *Service) Invalidate(ctx context.Context, id string) {
	s.cache.Delete(ctx, id)
	metrics.UpdateCacheEntries(s.cache.Size())
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	lookups := s.lookups.Load()
	hits := s.hits.Load()
	return map[string]interface{}{
		"uptimeSeconds":     int64(s.now().Sub(s.startedAt).Seconds()),
		"lookups":           lookups,
		"cacheHits":         hits,
		"cacheMisses":       lookups - hits,
		"syntheticProfiles": s.synthetic.Load(),
		"cacheEntries":      s.cache.Size(),
		"cacheTTLSeconds":   int64(s.cacheTTL.Seconds()),
		"historyYears":      s.historyYears,
	}
}
