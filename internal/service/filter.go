package service

import (
	"strings"

	"github.com/cookup/gateway/internal/types"
)

const (
	// FilterAll disables a predicate
	FilterAll = "All"
	// DietQuick selects fast meals. Neither source reports a duration, so it passes everything.
	DietQuick = "Quick"
)

// Cuisines lists the cuisine filter options offered to the client
var Cuisines = []string{FilterAll, "Italian", "Mexican", "Thai", "British", "French", "American"}

// Diets lists the diet filter options offered to the client
var Diets = []string{FilterAll, "Vegan", "Vegetarian", DietQuick, "High Protein"}

// Filter keeps the items matching both the cuisine and the diet predicate,
// preserving input order. It never re-queries a source.
func Filter(items []types.MealSummary, cuisine, diet string) []types.MealSummary {
	out := make([]types.MealSummary, 0, len(items))
	tag := strings.ToLower(diet)
	for _, m := range items {
		if matchesCuisine(m, cuisine) && matchesDiet(m, diet, tag) {
			out = append(out, m)
		}
	}
	return out
}

func matchesCuisine(m types.MealSummary, cuisine string) bool {
	if cuisine == "" || cuisine == FilterAll {
		return true
	}
	return m.Area != nil && *m.Area == cuisine
}

func matchesDiet(m types.MealSummary, diet, tag string) bool {
	switch diet {
	case "", FilterAll, DietQuick:
		return true
	}
	return strings.Contains(strings.ToLower(types.StringValue(m.Tags)), tag)
}
