package retrieval

import (
	"strings"

	"github.com/AghaSalikAli/Taste-Karachi/internal/database"
	"github.com/AghaSalikAli/Taste-Karachi/internal/models"
)

// Level is one rung of the query relaxation ladder.
type Level int

const (
	// LevelStrict filters on category, area, price level and any vibe
	// features set on the request.
	LevelStrict Level = iota
	// LevelRelaxed drops the vibe features and keeps the identity filters.
	LevelRelaxed
	// LevelBroad keeps only the category.
	LevelBroad
)

// ladder orders the levels from most to least specific. Retrieval walks it
// top to bottom and stops at the first level with matches.
var ladder = []Level{LevelStrict, LevelRelaxed, LevelBroad}

func (l Level) String() string {
	switch l {
	case LevelStrict:
		return "strict"
	case LevelRelaxed:
		return "relaxed"
	case LevelBroad:
		return "broad"
	default:
		return "unknown"
	}
}

// Fallback identity values for requests that leave the fields empty.
const (
	defaultCategory   = "restaurant"
	defaultArea       = "Karachi"
	defaultPriceLevel = "moderate"
)

// vibeFields lists the vibe features in the order they join the strict
// filter. Only features set to true are filtered on.
var vibeFields = []struct {
	name  string
	isSet func(models.RestaurantFeatures) bool
}{
	{"is_open_24_7", func(f models.RestaurantFeatures) bool { return f.IsOpen247 }},
	{"outdoor_seating", func(f models.RestaurantFeatures) bool { return f.OutdoorSeating }},
	{"live_music", func(f models.RestaurantFeatures) bool { return f.LiveMusic }},
}

// buildQuery renders the search text and metadata filter for one ladder
// level.
func buildQuery(features models.RestaurantFeatures, level Level) (string, database.Filter) {
	category := features.Category
	if category == "" {
		category = defaultCategory
	}
	area := features.Area
	if area == "" {
		area = defaultArea
	}
	priceLevel := features.PriceLevel
	if priceLevel == "" {
		priceLevel = defaultPriceLevel
	}

	parts := []string{category}
	filter := database.Filter{{Field: "category", Value: category}}

	if level != LevelBroad {
		parts = append(parts, "in "+area, "that is "+priceLevel+" price")
		filter = append(filter,
			database.Condition{Field: "area", Value: area},
			database.Condition{Field: "price_level", Value: priceLevel},
		)
	}

	if level == LevelStrict {
		for _, vibe := range vibeFields {
			if vibe.isSet(features) {
				filter = append(filter, database.Condition{Field: vibe.name, Value: true})
			}
		}
	}

	queryText := "Reviews for a " + strings.Join(parts, " ") + "."
	return queryText, filter
}
