package service

import "errors"

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrRatingNotFound   = errors.New("rating not found")
	ErrInvalidScore     = errors.New("score must be between 1 and 5")
	ErrEmptyTitle       = errors.New("meal title is required")
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidMealType  = errors.New("invalid meal type")
	ErrEntryNotFound    = errors.New("planner entry not found")
)
