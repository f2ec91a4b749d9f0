// Package history maps raw, possibly sparse rating series onto a fixed
// trailing window of consecutive years.
package history

import (
	"sort"

	"github.com/okian/ratingscope/internal/domain/model"
)

// DefaultYears is the default window length.
const DefaultYears = 10

// Normalizer pads or trims a series to exactly Years points ending at the
// current year.
type Normalizer struct {
	Years    int
	Baseline int
}

// New returns a Normalizer with the given window length and baseline rating.
// Non-positive values fall back to the defaults.
func New(years, baseline int) Normalizer {
	if years <= 0 {
		years = DefaultYears
	}
	if baseline <= 0 {
		baseline = model.BaselineRating
	}
	return Normalizer{Years: years, Baseline: baseline}
}

// Normalize returns exactly n.Years points for the years ending at
// currentYear. Known points inside the window are kept as-is; gaps carry the
// last value placed in the window forward. Before the first known point in
// the window, the most recent known value of the whole input is used, or the
// baseline when there is no data at all.
func (n Normalizer) Normalize(raw model.Series, currentYear int) model.Series {
	start := currentYear - (n.Years - 1)

	sorted := dedupe(raw)

	var window model.Series
	for _, p := range sorted {
		if p.Year >= start && p.Year <= currentYear {
			window = append(window, p)
		}
	}
	if len(window) >= n.Years {
		return window[len(window)-n.Years:]
	}

	out := make(model.Series, 0, n.Years)
	for y := start; y <= currentYear; y++ {
		if p, ok := sorted.Find(y); ok {
			out = append(out, p)
			continue
		}
		out = append(out, model.Point{Year: y, Rating: n.fill(out, sorted)})
	}
	return out
}

func (n Normalizer) fill(placed, known model.Series) int {
	if last, ok := placed.Latest(); ok {
		return last.Rating
	}
	if len(known) == 0 {
		return n.Baseline
	}
	return known[len(known)-1].Rating
}

// dedupe sorts a copy of raw by year, keeping the last point given per year.
func dedupe(raw model.Series) model.Series {
	sorted := make(model.Series, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	out := sorted[:0]
	for _, p := range sorted {
		if n := len(out); n > 0 && out[n-1].Year == p.Year {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
