package extract

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	tagRe         = regexp.MustCompile(`<[^>]*>`)
	numberTokenRe = regexp.MustCompile(`\b\d{3,4}\b`)
	yearTokenRe   = regexp.MustCompile(`\b20\d{2}\b`)
	standardRe    = regexp.MustCompile(`(?i)standard`)
	standardTagRe = regexp.MustCompile(`(?i)\b(?:standard|std)\b`)
	dateSuffixRe  = regexp.MustCompile(`^[-/.](?:[A-Za-z]{3}|\d{1,2}\b)`)
)

// token is a numeric match and its byte offsets in the source text.
type token struct {
	value int
	start int
	end   int
}

// scanTokens returns every match of re in text, in document order.
func scanTokens(re *regexp.Regexp, text string) []token {
	idx := re.FindAllStringIndex(text, -1)
	out := make([]token, 0, len(idx))
	for _, m := range idx {
		v, err := strconv.Atoi(text[m[0]:m[1]])
		if err != nil {
			continue
		}
		out = append(out, token{value: v, start: m[0], end: m[1]})
	}
	return out
}

// numberTokens returns every 3-4 digit number in text.
func numberTokens(text string) []token {
	return scanTokens(numberTokenRe, text)
}

// yearTokens returns every 20xx token in text.
func yearTokens(text string) []token {
	return scanTokens(yearTokenRe, text)
}

// dateShaped reports whether t is the year of a date such as 2019-Jan or
// 2019/03.
func dateShaped(text string, t token) bool {
	return dateSuffixRe.MatchString(text[t.end:])
}

// stripTags replaces markup with spaces and decodes entities.
func stripTags(s string) string {
	return html.UnescapeString(tagRe.ReplaceAllString(s, " "))
}

// firstCapture returns the first capture group of the first match of re
// whose value is an integer accepted by keep.
func firstCapture(re *regexp.Regexp, text string, keep func(int) bool) (int, int, bool) {
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		if len(m) < 4 || m[2] < 0 {
			continue
		}
		v, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || !keep(v) {
			continue
		}
		return v, m[3], true
	}
	return 0, 0, false
}

// collapseSpace folds whitespace runs into single spaces and trims.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
