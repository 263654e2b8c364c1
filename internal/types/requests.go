package types

// AddFavoriteRequest represents the request body for saving a favorite meal
type AddFavoriteRequest struct {
	MealID       string `json:"mealId" binding:"required"`
	Name         string `json:"name" binding:"required"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Area         string `json:"area"`
	Category     string `json:"category"`
}

// RateMealRequest represents the request body for rating a meal
type RateMealRequest struct {
	MealID  string `json:"mealId" binding:"required"`
	Name    string `json:"name"`
	Score   int    `json:"score" binding:"required"`
	Comment string `json:"comment" binding:"max=1000"`
}

// AddPlannedMealRequest represents the request body for adding a meal to the week plan
type AddPlannedMealRequest struct {
	Day     string `json:"day" binding:"required"`
	Title   string `json:"title"`
	Cuisine string `json:"cuisine"`
	Type    string `json:"type"`
	MealID  string `json:"mealId"`
}

// SearchResponse is the JSON body returned by the meal search endpoint
type SearchResponse struct {
	Items        []MealSummary `json:"items"`
	Source       Source        `json:"source"`
	Empty        bool          `json:"empty"`
	Total        int           `json:"total"`
	RequestToken uint64        `json:"requestToken"`
}
