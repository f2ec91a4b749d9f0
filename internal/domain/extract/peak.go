package extract

import (
	"regexp"
	"strconv"

	"github.com/okian/ratingscope/internal/domain/model"
)

// Peak sources.
const (
	PeakSourceSeries   = "series"
	PeakSourceExplicit = "explicit"
	PeakSourceAnomaly  = "anomaly"
)

// UnknownPeakDate is reported when no peak year can be resolved.
const UnknownPeakDate = "Unknown"

var peakMentionRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)\b(?:peak|highest|top)\b[^0-9]{0,40}?\b(\d{3,4})\b`),
	regexp.MustCompile(`(?i)highest\s+rating\s*:\s*(\d{3,4})\b`),
	regexp.MustCompile(`(?i)peak\s+rating\s*:\s*(\d{3,4})\b`),
}

// Peak is the best rating a player is known to have held.
type Peak struct {
	Rating int
	Year   int // 0 when unknown
	Source string
}

// Date formats the peak year, or "Unknown".
func (p Peak) Date() string {
	if p.Year == 0 {
		return UnknownPeakDate
	}
	return strconv.Itoa(p.Year)
}

// Peak derives the peak from the normalized series and reconciles it with
// explicit peak mentions and undercounted table values in the document. The
// result is never below the series maximum.
func (e *Extractor) Peak(normalized model.Series, text string) Peak {
	var peak Peak
	if best, ok := normalized.Max(); ok {
		peak = Peak{Rating: best.Rating, Year: best.Year, Source: PeakSourceSeries}
	}

	if rating, year, ok := e.explicitPeak(text); ok && rating > peak.Rating {
		if year == 0 {
			year = peak.Year
		}
		peak = Peak{Rating: rating, Year: year, Source: PeakSourceExplicit}
	}

	if rating, year, ok := e.anomalyPeak(text, peak.Rating); ok {
		peak = Peak{Rating: rating, Year: year, Source: PeakSourceAnomaly}
	}

	return peak
}

// explicitPeak finds a "peak/highest/top ... <rating>" mention. The year is
// taken from a year token just after the rating, or 0 if none.
func (e *Extractor) explicitPeak(text string) (int, int, bool) {
	for _, re := range peakMentionRes {
		rating, end, ok := firstCapture(re, text, e.Plausible)
		if !ok {
			continue
		}
		return rating, e.yearAfter(text, end), true
	}
	return 0, 0, false
}

func (e *Extractor) yearAfter(text string, pos int) int {
	current := e.CurrentYear()
	for _, y := range yearTokens(text[pos:]) {
		if y.start >= e.peakYearWindow {
			break
		}
		if model.ValidYear(y.value, current) {
			return y.value
		}
	}
	return 0
}

// anomalyPeak scans for ratings with a year token shortly before them that
// beat floor by more than the peak margin. The first such value wins.
func (e *Extractor) anomalyPeak(text string, floor int) (int, int, bool) {
	current := e.CurrentYear()
	years := yearTokens(text)
	for _, n := range numberTokens(text) {
		if dateShaped(text, n) || !e.Plausible(n.value) || n.value <= floor+e.peakMargin {
			continue
		}
		year := 0
		for _, y := range years {
			if y.end > n.start {
				break
			}
			if y.start >= n.start-e.anomalyWindow && model.ValidYear(y.value, current) {
				year = y.value
			}
		}
		if year != 0 {
			return n.value, year, true
		}
	}
	return 0, 0, false
}
