// Package extract pulls a player's name, current rating, rating history and
// peak out of rating-authority profile pages. Documents are treated as opaque
// text and searched with independent patterns; no DOM is built.
package extract

import (
	"time"

	"github.com/okian/ratingscope/internal/domain/model"
)

// Default heuristic parameters.
const (
	defaultLabelWindow    = 80
	defaultCenterWindow   = 60
	defaultLooseWindow    = 40
	defaultAnomalyWindow  = 30
	defaultPeakYearWindow = 16
	defaultPeakMargin     = 20
)

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithPlausibleRange sets the range of ratings treated as credible.
func WithPlausibleRange(r model.Range) Option {
	return func(e *Extractor) {
		if r.Min > 0 && r.Max > r.Min {
			e.plausible = r
		}
	}
}

// WithClock sets the time source used to resolve the current year.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLabelWindow sets how far after a number a STANDARD label may appear.
func WithLabelWindow(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.labelWindow = n
		}
	}
}

// WithCenterWindow sets the half-width of the window searched around the
// first "standard" mention.
func WithCenterWindow(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.centerWindow = n
		}
	}
}

// WithLooseWindow sets how far after a year token the loose scan looks.
func WithLooseWindow(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.looseWindow = n
		}
	}
}

// WithAnomalyWindow sets how far before a number the peak anomaly scan
// looks for its year.
func WithAnomalyWindow(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.anomalyWindow = n
		}
	}
}

// WithPeakMargin sets how far a documented value must exceed the current
// peak before the anomaly scan replaces it.
func WithPeakMargin(n int) Option {
	return func(e *Extractor) {
		if n >= 0 {
			e.peakMargin = n
		}
	}
}
