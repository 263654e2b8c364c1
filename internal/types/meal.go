package types

import "strings"

// Source identifies which data source satisfied a resolution
type Source string

const (
	SourcePrimary  Source = "PRIMARY"
	SourceFallback Source = "FALLBACK"
)

// MealSummary represents a search-result entry
type MealSummary struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
	Area         *string `json:"area,omitempty"`
	Category     *string `json:"category,omitempty"`
	Tags         *string `json:"tags,omitempty"`
}

// Ingredient is one measure/ingredient pair of a meal
type Ingredient struct {
	Quantity string `json:"quantity"`
	Name     string `json:"ingredient"`
}

// String renders the pair the way it is shown in the ingredient list
func (i Ingredient) String() string {
	return strings.TrimSpace(i.Quantity + " " + i.Name)
}

// MealDetail is a MealSummary enriched with instructions and ingredients
type MealDetail struct {
	MealSummary
	Instructions *string      `json:"instructions,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
}

// ResolutionResult is the transient outcome of a single search resolution
type ResolutionResult struct {
	Items  []MealSummary `json:"items"`
	Source Source        `json:"source"`
	Token  uint64        `json:"requestToken"`
}

// Empty reports whether the resolution produced no items
func (r *ResolutionResult) Empty() bool {
	return len(r.Items) == 0
}

// StringValue dereferences an optional field, returning "" when absent
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
