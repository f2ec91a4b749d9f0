// Package model contains domain models passed between layers.
package model

import "sort"

// Default rating bounds used across extraction and normalization.
const (
	MinPlausibleRating = 800
	MaxPlausibleRating = 3000
	MinHistoryYear     = 2000
	BaselineRating     = 1600
)

// Point is a single (year, rating) observation.
type Point struct {
	Year   int `json:"year"`
	Rating int `json:"rating"`
}

// Series is an ordered rating history, strictly increasing by year.
type Series []Point

// Range bounds the ratings treated as credible.
type Range struct {
	Min int
	Max int
}

// DefaultRange returns the 800-3000 plausible rating range.
func DefaultRange() Range {
	return Range{Min: MinPlausibleRating, Max: MaxPlausibleRating}
}

// Contains reports whether r lies inside the range, bounds inclusive.
func (p Range) Contains(r int) bool {
	return r >= p.Min && r <= p.Max
}

// ValidYear reports whether y is a usable history year for currentYear.
func ValidYear(y, currentYear int) bool {
	return y >= MinHistoryYear && y <= currentYear
}

// FromMap builds a Series from a year -> rating mapping, sorted by year.
func FromMap(m map[int]int) Series {
	if len(m) == 0 {
		return nil
	}
	years := make([]int, 0, len(m))
	for y := range m {
		years = append(years, y)
	}
	sort.Ints(years)
	out := make(Series, 0, len(years))
	for _, y := range years {
		out = append(out, Point{Year: y, Rating: m[y]})
	}
	return out
}

// Latest returns the highest-year point.
func (s Series) Latest() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// Max returns the first point holding the maximum rating.
func (s Series) Max() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	best := s[0]
	for _, p := range s[1:] {
		if p.Rating > best.Rating {
			best = p
		}
	}
	return best, true
}

// Find returns the point for year, if present.
func (s Series) Find(year int) (Point, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].Year >= year })
	if i < len(s) && s[i].Year == year {
		return s[i], true
	}
	return Point{}, false
}
