package service

import (
	"context"

	"github.com/cookup/gateway/internal/model"
	"github.com/cookup/gateway/internal/types"
)

// MealSource is a single remote source of meal data
type MealSource interface {
	Search(ctx context.Context, query string) ([]types.MealSummary, error)
	Lookup(ctx context.Context, id string) (*types.MealDetail, error)
}

// IResolver defines the primary-then-fallback resolution operations
type IResolver interface {
	ResolveSearch(ctx context.Context, query string) (*types.ResolutionResult, error)
	ResolveDetail(ctx context.Context, id string) (*types.MealDetail, error)
}

// IFavoriteService defines the interface for favorite operations
type IFavoriteService interface {
	List(ctx context.Context, userID string) ([]model.Favorite, error)
	Add(ctx context.Context, userID string, in FavoriteInput) (*model.Favorite, error)
	Remove(ctx context.Context, userID, key string) error
}

// IRatingService defines the interface for rating operations
type IRatingService interface {
	List(ctx context.Context, userID string) ([]model.Rating, error)
	Rate(ctx context.Context, userID string, in RatingInput) (*model.Rating, error)
	Remove(ctx context.Context, userID, key string) error
}

// IPlannerService defines the interface for weekly planner operations
type IPlannerService interface {
	Week(ctx context.Context, userID string) (WeekPlan, error)
	Add(ctx context.Context, userID string, in PlannerInput) (*model.PlannedMeal, error)
	Remove(ctx context.Context, userID, day string, index int) error
	ClearWeek(ctx context.Context, userID string) error
	ShoppingList(ctx context.Context, userID string) (*ShoppingList, error)
}
