package extract

import "github.com/okian/ratingscope/internal/domain/model"

// Layers is an ordered list of year -> rating mappings, lowest precedence
// first. Folding them lets later layers overwrite earlier ones year by year.
type Layers []map[int]int

// Merge folds the layers into a single series sorted by year.
func (l Layers) Merge() model.Series {
	merged := make(map[int]int)
	for _, layer := range l {
		for year, rating := range layer {
			merged[year] = rating
		}
	}
	return model.FromMap(merged)
}
