// Package profile assembles player records from raw profile documents and
// falls back to synthetic records when a document is missing or unusable.
package profile

import (
	"github.com/okian/ratingscope/internal/domain/extract"
	"github.com/okian/ratingscope/internal/domain/history"
	"github.com/okian/ratingscope/internal/domain/trend"
	"github.com/okian/ratingscope/pkg/logger"
)

// defaultSnippetChars bounds the debug snippet.
const defaultSnippetChars = 2000

// Option applies a configuration option to the Assembler.
type Option func(*Assembler)

// WithExtractor sets the extractor, and with it the clock and plausible range.
func WithExtractor(e *extract.Extractor) Option {
	return func(a *Assembler) {
		if e != nil {
			a.extractor = e
		}
	}
}

// WithNormalizer sets the history window.
func WithNormalizer(n history.Normalizer) Option {
	return func(a *Assembler) {
		if n.Years > 0 {
			a.normalizer = n
		}
	}
}

// WithClassifier sets the trend classifier.
func WithClassifier(c *trend.Classifier) Option {
	return func(a *Assembler) {
		if c != nil {
			a.classifier = c
		}
	}
}

// WithRand sets the random source used for synthetic records.
func WithRand(r Rand) Option {
	return func(a *Assembler) {
		if r != nil {
			a.rand = r
		}
	}
}

// WithSnippetChars sets the maximum size of the debug snippet in bytes.
func WithSnippetChars(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.snippetChars = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}
