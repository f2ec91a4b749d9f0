package extract

import (
	"time"

	"github.com/okian/ratingscope/internal/domain/model"
)

// Extractor runs the extraction heuristics. It holds no mutable state and is
// safe for concurrent use.
type Extractor struct {
	plausible      model.Range
	now            func() time.Time
	labelWindow    int
	centerWindow   int
	looseWindow    int
	anomalyWindow  int
	peakYearWindow int
	peakMargin     int
}

// New creates an Extractor with configuration options.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		plausible:      model.DefaultRange(),
		now:            time.Now,
		labelWindow:    defaultLabelWindow,
		centerWindow:   defaultCenterWindow,
		looseWindow:    defaultLooseWindow,
		anomalyWindow:  defaultAnomalyWindow,
		peakYearWindow: defaultPeakYearWindow,
		peakMargin:     defaultPeakMargin,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// CurrentYear returns the year used as the end of all history windows.
func (e *Extractor) CurrentYear() int {
	return e.now().Year()
}

// Plausible reports whether r is inside the configured rating range.
func (e *Extractor) Plausible(r int) bool {
	return e.plausible.Contains(r)
}
