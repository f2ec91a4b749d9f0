package extract

import (
	"regexp"

	"github.com/okian/ratingscope/internal/domain/model"
)

// CurrentStageSeries names the fallback that substitutes the latest series point.
const CurrentStageSeries = "series"

var (
	markupStandardRe = regexp.MustCompile(`(?is)>\s*(\d{3,4})\s*(?:<[^>]{0,80}>\s*){1,4}(?:standard|std)\b`)

	labeledRatingRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)standard[^0-9]{0,40}?\b(\d{3,4})\b`),
		regexp.MustCompile(`(?is)\b(\d{3,4})\b[^0-9]{0,40}?standard`),
		regexp.MustCompile(`(?i)standard\s+rating\s*:\s*(\d{3,4})\b`),
		regexp.MustCompile(`(?i)fide\s+rating\s*:\s*(\d{3,4})\b`),
		regexp.MustCompile(`(?i)"standardRating"\s*:\s*"?(\d{3,4})\b`),
	}
)

// currentCascade builds the ordered current-rating strategies.
func (e *Extractor) currentCascade() cascade[int] {
	return cascade[int]{
		{name: "markup-label", find: e.markupLabelRating},
		{name: "standard-window", find: e.standardWindowRating},
		{name: "trailing-label", find: e.trailingLabelRating},
		{name: "labeled-pattern", find: e.labeledRating},
		{name: "last-number", find: e.lastPlausibleRating},
	}
}

// CurrentStages lists the current-rating strategies in priority order.
func (e *Extractor) CurrentStages() []string {
	return e.currentCascade().names()
}

// CurrentRating resolves the player's current rating. When no strategy finds
// a plausible value, the latest point of series is used. It reports false
// only when neither source yields a value.
func (e *Extractor) CurrentRating(text string, series model.Series) (int, string, bool) {
	if v, stage, ok := e.currentCascade().first(text); ok {
		return v, stage, true
	}
	if p, ok := series.Latest(); ok && e.Plausible(p.Rating) {
		return p.Rating, CurrentStageSeries, true
	}
	return 0, "", false
}

func (e *Extractor) markupLabelRating(text string) (int, bool) {
	v, _, ok := firstCapture(markupStandardRe, text, e.Plausible)
	return v, ok
}

func (e *Extractor) standardWindowRating(text string) (int, bool) {
	loc := standardRe.FindStringIndex(text)
	if loc == nil {
		return 0, false
	}
	lo, hi := loc[0]-e.centerWindow, loc[1]+e.centerWindow
	for _, t := range numberTokens(text) {
		if t.start >= lo && t.end <= hi && e.Plausible(t.value) {
			return t.value, true
		}
	}
	return 0, false
}

func (e *Extractor) trailingLabelRating(text string) (int, bool) {
	for _, t := range numberTokens(text) {
		if !e.Plausible(t.value) {
			continue
		}
		end := t.end + e.labelWindow
		if end > len(text) {
			end = len(text)
		}
		if standardTagRe.MatchString(text[t.end:end]) {
			return t.value, true
		}
	}
	return 0, false
}

func (e *Extractor) labeledRating(text string) (int, bool) {
	for _, re := range labeledRatingRes {
		if v, _, ok := firstCapture(re, text, e.Plausible); ok {
			return v, true
		}
	}
	return 0, false
}

func (e *Extractor) lastPlausibleRating(text string) (int, bool) {
	toks := numberTokens(text)
	for i := len(toks) - 1; i >= 0; i-- {
		if e.Plausible(toks[i].value) {
			return toks[i].value, true
		}
	}
	return 0, false
}
