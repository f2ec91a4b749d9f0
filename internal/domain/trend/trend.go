// Package trend classifies the direction of a rating history.
package trend

import "github.com/okian/ratingscope/internal/domain/model"

// Default classification constants.
const (
	defaultThreshold = 50
	windowSize       = 3
)

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithThreshold sets the mean difference treated as noise.
func WithThreshold(points float64) Option {
	return func(c *Classifier) {
		if points > 0 {
			c.threshold = points
		}
	}
}

// Classifier compares the mean of the most recent points with the mean of
// the points before them.
type Classifier struct {
	threshold float64
}

// New creates a Classifier with configuration options.
func New(opts ...Option) *Classifier {
	c := &Classifier{threshold: defaultThreshold}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns improving, declining or stable for an ordered series.
func (c *Classifier) Classify(s model.Series) model.Trend {
	if len(s) < 2 {
		return model.TrendStable
	}

	recentStart := len(s) - windowSize
	if recentStart < 0 {
		recentStart = 0
	}
	recent := s[recentStart:]
	avgRecent := mean(recent)

	var avgPrevious float64
	if len(s) > windowSize {
		prevStart := recentStart - windowSize
		if prevStart < 0 {
			prevStart = 0
		}
		avgPrevious = mean(s[prevStart:recentStart])
	} else {
		avgPrevious = float64(recent[0].Rating)
	}

	switch {
	case avgRecent > avgPrevious+c.threshold:
		return model.TrendImproving
	case avgRecent < avgPrevious-c.threshold:
		return model.TrendDeclining
	default:
		return model.TrendStable
	}
}

func mean(s model.Series) float64 {
	if len(s) == 0 {
		return 0
	}
	sum := 0
	for _, p := range s {
		sum += p.Rating
	}
	return float64(sum) / float64(len(s))
}
