package profile

import (
	"context"
	"unicode/utf8"

	"github.com/okian/ratingscope/internal/adapters/fetch"
	"github.com/okian/ratingscope/internal/domain/extract"
	"github.com/okian/ratingscope/internal/domain/history"
	"github.com/okian/ratingscope/internal/domain/model"
	"github.com/okian/ratingscope/internal/domain/trend"
	"github.com/okian/ratingscope/internal/domain/types"
	"github.com/okian/ratingscope/pkg/logger"
	"github.com/okian/ratingscope/pkg/metrics"
)

// Stage labels recorded in debug output.
const (
	StageSynthetic = "synthetic"
	StageBaseline  = "baseline"
)

// Assembler runs the extraction pipeline for one player id.
type Assembler struct {
	fetcher      fetch.Fetcher
	extractor    *extract.Extractor
	normalizer   history.Normalizer
	classifier   *trend.Classifier
	rand         Rand
	snippetChars int
	logger       logger.Logger
}

// New creates an Assembler that reads documents from f.
func New(f fetch.Fetcher, opts ...Option) *Assembler {
	a := &Assembler{
		fetcher:      f,
		extractor:    extract.New(),
		normalizer:   history.New(history.DefaultYears, model.BaselineRating),
		classifier:   trend.New(),
		snippetChars: defaultSnippetChars,
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rand == nil {
		a.rand = NewRand()
	}
	return a
}

// Assemble fetches the document for id and builds its record. It never
// fails: a missing document or an unresolved name yields a synthetic record.
func (a *Assembler) Assemble(ctx context.Context, id string) types.Assembly {
	if a.fetcher == nil {
		return a.Synthetic(id)
	}

	doc, err := a.fetcher.Fetch(ctx, id)
	if err != nil {
		a.logger.Info(ctx, "profile unavailable, generating synthetic record",
			logger.String("id", id),
			logger.String("reason", fetch.Kind(err)),
		)
		out := a.Synthetic(id)
		out.Debug.FetchError = err.Error()
		return out
	}

	out, ok := a.FromDocument(ctx, id, doc)
	if !ok {
		a.logger.Info(ctx, "no player name in document, generating synthetic record",
			logger.String("id", id),
			logger.Int("bytes", len(doc)),
		)
		synth := a.Synthetic(id)
		synth.Debug.Snippet = out.Debug.Snippet
		return synth
	}
	return out
}

// FromDocument runs the extractors over doc. It reports false when no name
// can be resolved; the returned assembly then carries only debug data.
func (a *Assembler) FromDocument(ctx context.Context, id, doc string) (types.Assembly, bool) {
	e := a.extractor
	dbg := types.Debug{Snippet: a.snippet(doc), Stages: map[string]string{}}

	name, nameStage, ok := e.Name(doc)
	if !ok {
		return types.Assembly{Debug: dbg}, false
	}
	dbg.Stages["name"] = nameStage

	raw, seriesStage := e.Series(ctx, doc)
	dbg.Stages["series"] = seriesStage
	normalized := a.normalizer.Normalize(raw, e.CurrentYear())

	current, currentStage, ok := e.CurrentRating(doc, raw)
	if !ok {
		latest, _ := normalized.Latest()
		current, currentStage = latest.Rating, StageBaseline
	}
	dbg.Stages["current"] = currentStage

	peak := e.Peak(normalized, doc)
	dbg.Stages["peak"] = peak.Source

	for field, stage := range dbg.Stages {
		metrics.RecordExtractionStage(field, stage)
	}
	a.logger.Debug(ctx, "profile extracted",
		logger.String("id", id),
		logger.String("name_stage", nameStage),
		logger.String("series_stage", seriesStage),
		logger.String("current_stage", currentStage),
		logger.Int("raw_points", len(raw)),
	)

	return types.Assembly{
		Record: types.PlayerRecord{
			ID:            id,
			Name:          name,
			CurrentRating: current,
			PeakRating:    peak.Rating,
			PeakDate:      peak.Date(),
			RatingHistory: normalized,
			Trend:         a.classifier.Classify(normalized),
		},
		Debug: dbg,
	}, true
}

// snippet returns at most snippetChars bytes of doc, cut on a rune boundary.
func (a *Assembler) snippet(doc string) string {
	if len(doc) <= a.snippetChars {
		return doc
	}
	cut := a.snippetChars
	for cut > 0 && !utf8.RuneStart(doc[cut]) {
		cut--
	}
	return doc[:cut]
}
