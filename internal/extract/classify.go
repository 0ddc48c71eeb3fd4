package extract

import "strings"

// Category is the semantic class of a block insertion.
type Category string

const (
	CategoryDoor      Category = "door"
	CategoryWindow    Category = "window"
	CategoryColumn    Category = "column"
	CategoryFurniture Category = "furniture"
	CategoryOther     Category = "other"
)

// blockPatterns is evaluated top to bottom; the first category with a
// matching substring wins, so "door-chair" is a door.
var blockPatterns = []struct {
	category Category
	patterns []string
}{
	{CategoryDoor, []string{"door", "dr", "d-", "entrance", "gate"}},
	{CategoryWindow, []string{"window", "win", "w-", "wd"}},
	{CategoryColumn, []string{"column", "col", "pillar", "pier"}},
	{CategoryFurniture, []string{"furniture", "furn", "chair", "table", "desk", "bed", "sofa", "cabinet"}},
}

// Classify maps a block name to a Category by case-insensitive substring match.
// Names matching no pattern are CategoryOther.
func Classify(name string) Category {
	lower := strings.ToLower(name)
	for _, set := range blockPatterns {
		for _, p := range set.patterns {
			if strings.Contains(lower, p) {
				return set.category
			}
		}
	}
	return CategoryOther
}
