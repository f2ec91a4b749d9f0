package extract

import (
	"regexp"
	"strings"
)

var (
	titleRe       = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	headingRe     = regexp.MustCompile(`(?is)<h[1-6][^>]*>(.*?)</h[1-6]>`)
	boilerplateRe = regexp.MustCompile(`(?i)\b(?:fide|uscf|chess\.com|profile|ratings?|player\s+card)\b`)
	dashRe        = regexp.MustCompile(`[-\x{2010}-\x{2015}\x{2212}\x{FE58}\x{FE63}\x{FF0D}]`)
)

var nameCascade = cascade[string]{
	{name: "title", find: titleName},
	{name: "heading", find: headingName},
}

// NameStages lists the name strategies in priority order.
func NameStages() []string { return nameCascade.names() }

// Name derives the player's display name from the document. The second
// return value names the strategy that produced it.
func (e *Extractor) Name(text string) (string, string, bool) {
	return nameCascade.first(text)
}

func titleName(text string) (string, bool) {
	m := titleRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	candidate := stripTags(m[1])
	if i := strings.Index(candidate, "-"); i >= 0 {
		candidate = candidate[:i]
	}
	return nonEmpty(CleanName(candidate))
}

func headingName(text string) (string, bool) {
	m := headingRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return nonEmpty(CleanName(stripTags(m[1])))
}

// CleanName strips site boilerplate and dash suffixes from a raw name and
// reorders "Last, First" into "First Last". It returns "" when nothing
// usable remains.
func CleanName(raw string) string {
	s := raw
	if loc := boilerplateRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	if loc := dashRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	if strings.Contains(s, ",") {
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 1 {
			parts = append(parts[1:], parts[0])
		}
		s = strings.Join(parts, " ")
	}
	return collapseSpace(s)
}

func nonEmpty(s string) (string, bool) {
	return s, s != ""
}
