package model

// Trend classifies the direction of a rating history.
type Trend string

// Trend values.
const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Valid reports whether t is one of the known trend values.
func (t Trend) Valid() bool {
	switch t {
	case TrendImproving, TrendDeclining, TrendStable:
		return true
	}
	return false
}

// Category is a coarse strength label for a rating.
type Category string

// Rating categories, weakest first.
const (
	CategoryBeginner     Category = "Beginner"
	CategoryAmateur      Category = "Amateur"
	CategoryIntermediate Category = "Intermediate"
	CategoryAdvanced     Category = "Advanced"
	CategoryExpert       Category = "Expert"
	CategoryMaster       Category = "Master"
	CategoryGrandmaster  Category = "Grandmaster"
)

var categoryBounds = []struct {
	below int
	cat   Category
}{
	{1000, CategoryBeginner},
	{1400, CategoryAmateur},
	{1800, CategoryIntermediate},
	{2200, CategoryAdvanced},
	{2400, CategoryExpert},
	{2600, CategoryMaster},
}

// CategoryFor returns the category label for rating.
func CategoryFor(rating int) Category {
	for _, b := range categoryBounds {
		if rating < b.below {
			return b.cat
		}
	}
	return CategoryGrandmaster
}
