package extract

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/titanous/json5"
	"golang.org/x/sync/errgroup"

	"github.com/okian/ratingscope/internal/domain/model"
)

// Series stage names.
const (
	SeriesStageChart = "chart"
	SeriesStageTable = "table"
	SeriesStageMixed = "chart+table"
	SeriesStageLoose = "loose"
	SeriesStageNone  = "none"
)

// labelSimilarity is the Jaro-Winkler score above which a series name word
// counts as a standard/classical label.
const labelSimilarity = 0.9

var (
	categoriesRe  = regexp.MustCompile(`(?is)categories\s*:\s*\[([^\]]*)\]`)
	yearArrayRe   = regexp.MustCompile(`\[\s*(["']?20\d{2}["']?(?:\s*,\s*["']?20\d{2}["']?)*)\s*\]`)
	seriesKeyRe   = regexp.MustCompile(`(?i)series\s*:\s*\[`)
	seriesObjRe   = regexp.MustCompile(`\{([^{}]*)\}`)
	seriesNameRe  = regexp.MustCompile(`(?i)name\s*:\s*['"]([^'"]+)['"]`)
	seriesDataRe  = regexp.MustCompile(`(?i)data\s*:\s*\[([^\]]*)\]`)
	seriesValueRe = regexp.MustCompile(`\b\d{2,4}\b`)
	rowRe         = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	labelRe       = regexp.MustCompile(`(?i)standard|classical`)
)

// chartSeries is one named series of an embedded chart description.
type chartSeries struct {
	Name string `json:"name"`
	Data []any  `json:"data"`
}

// Series derives the raw rating history from the document. Chart data and
// table rows are extracted concurrently; table values win for years present
// in both. The loose scan is used only when both structured layers are empty.
// The returned stage names which layers contributed.
func (e *Extractor) Series(ctx context.Context, text string) (model.Series, string) {
	var chart, table, loose map[int]int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		chart = e.chartSeries(text)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		table = e.tableSeries(text)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		loose = e.looseSeries(text)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, SeriesStageNone
	}

	switch {
	case len(chart) > 0 && len(table) > 0:
		return Layers{chart, table}.Merge(), SeriesStageMixed
	case len(table) > 0:
		return Layers{table}.Merge(), SeriesStageTable
	case len(chart) > 0:
		return Layers{chart}.Merge(), SeriesStageChart
	case len(loose) > 0:
		return Layers{loose}.Merge(), SeriesStageLoose
	}
	return nil, SeriesStageNone
}

// chartSeries pairs the chart's year categories with the preferred series.
func (e *Extractor) chartSeries(text string) map[int]int {
	years := chartYears(text)
	if len(years) == 0 {
		return nil
	}
	series := parseChartSeries(text)
	if len(series) == 0 {
		return nil
	}
	values := pickSeries(series)
	if len(values) != len(years) {
		return nil
	}

	current := e.CurrentYear()
	out := make(map[int]int, len(years))
	for i, y := range years {
		if model.ValidYear(y, current) && e.Plausible(values[i]) {
			out[y] = values[i]
		}
	}
	return out
}

func chartYears(text string) []int {
	var list string
	if m := categoriesRe.FindStringSubmatch(text); m != nil {
		list = m[1]
	} else if m := yearArrayRe.FindStringSubmatch(text); m != nil {
		list = m[1]
	} else {
		return nil
	}
	toks := yearTokens(list)
	out := make([]int, len(toks))
	for i, t := range toks {
		out[i] = t.value
	}
	return out
}

// parseChartSeries reads the series array as a JSON5 literal, falling back to
// a pattern scan of its objects when the literal does not parse.
func parseChartSeries(text string) []chartSeries {
	loc := seriesKeyRe.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	block, ok := balancedBlock(text, loc[1]-1)
	if !ok {
		return nil
	}

	var parsed []chartSeries
	if err := json5.Unmarshal([]byte(block), &parsed); err == nil && len(parsed) > 0 {
		return parsed
	}

	var out []chartSeries
	for _, obj := range seriesObjRe.FindAllStringSubmatch(block, -1) {
		data := seriesDataRe.FindStringSubmatch(obj[1])
		if data == nil {
			continue
		}
		cs := chartSeries{}
		if name := seriesNameRe.FindStringSubmatch(obj[1]); name != nil {
			cs.Name = name[1]
		}
		for _, t := range scanTokens(seriesValueRe, data[1]) {
			cs.Data = append(cs.Data, float64(t.value))
		}
		out = append(out, cs)
	}
	return out
}

// balancedBlock returns the bracketed text starting at open, honoring nested
// brackets and quoted strings.
func balancedBlock(text string, open int) (string, bool) {
	if open < 0 || open >= len(text) || text[open] != '[' {
		return "", false
	}
	depth := 0
	var quote byte
	for i := open; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return text[open : i+1], true
			}
		}
	}
	return "", false
}

// pickSeries prefers a standard/classical series, else the one with the
// highest mean value.
func pickSeries(series []chartSeries) []int {
	bestIdx, bestMean := -1, math.Inf(-1)
	values := make([][]int, len(series))
	for i, s := range series {
		values[i] = seriesValues(s.Data)
		if isStandardLabel(s.Name) {
			return values[i]
		}
		if m := mean(values[i]); m > bestMean {
			bestIdx, bestMean = i, m
		}
	}
	if bestIdx < 0 {
		return nil
	}
	return values[bestIdx]
}

func isStandardLabel(name string) bool {
	if labelRe.MatchString(name) {
		return true
	}
	for _, word := range strings.Fields(strings.ToLower(name)) {
		if matchr.JaroWinkler(word, "standard", false) >= labelSimilarity ||
			matchr.JaroWinkler(word, "classical", false) >= labelSimilarity {
			return true
		}
	}
	return false
}

// seriesValues converts chart data points to integers. Missing points keep
// their position as 0 so positional pairing with the years stays aligned.
func seriesValues(data []any) []int {
	out := make([]int, len(data))
	for i, d := range data {
		out[i] = chartValue(d)
	}
	return out
}

func chartValue(d any) int {
	switch v := d.(type) {
	case float64:
		return int(math.Round(v))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	case []any:
		if len(v) == 0 {
			return 0
		}
		return chartValue(v[len(v)-1])
	case map[string]any:
		return chartValue(v["y"])
	}
	return 0
}

func mean(values []int) float64 {
	sum, n := 0, 0
	for _, v := range values {
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// tableSeries reads one (year, rating) pair per table row and keeps the
// highest rating seen for each year. The row's year is its date-shaped year
// token, else its first in-range year token. The rating is the first other
// plausible number in the row, so a rating such as 2015 is not a second year.
func (e *Extractor) tableSeries(text string) map[int]int {
	current := e.CurrentYear()
	out := make(map[int]int)
	for _, m := range rowRe.FindAllStringSubmatch(text, -1) {
		row := stripTags(m[1])

		year, ok := rowYear(row, current)
		if !ok {
			continue
		}
		for _, t := range numberTokens(row) {
			if t.start == year.start || !e.Plausible(t.value) {
				continue
			}
			if t.value > out[year.value] {
				out[year.value] = t.value
			}
			break
		}
	}
	return out
}

// rowYear picks the row's year token. A row with several dates is
// ambiguous and has none.
func rowYear(row string, current int) (token, bool) {
	var first, date token
	found, dates := false, 0
	for _, t := range yearTokens(row) {
		if !model.ValidYear(t.value, current) {
			continue
		}
		if dateShaped(row, t) {
			date = t
			dates++
		}
		if !found {
			first, found = t, true
		}
	}
	switch {
	case dates > 1:
		return token{}, false
	case dates == 1:
		return date, true
	}
	return first, found
}

// looseSeries pairs every year token with the first plausible number that
// starts within a short window after it. Date-shaped numbers are not ratings,
// and a year token already taken as a rating does not start a pair.
func (e *Extractor) looseSeries(text string) map[int]int {
	current := e.CurrentYear()
	nums := numberTokens(text)
	taken := make(map[int]bool)
	out := make(map[int]int)
	for _, y := range yearTokens(text) {
		if taken[y.start] || !model.ValidYear(y.value, current) {
			continue
		}
		limit := y.end + e.looseWindow
		for _, n := range nums {
			if n.start < y.end {
				continue
			}
			if n.start >= limit {
				break
			}
			if dateShaped(text, n) || !e.Plausible(n.value) {
				continue
			}
			out[y.value] = n.value
			taken[n.start] = true
			break
		}
	}
	return out
}
