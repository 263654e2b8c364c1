package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cookup/gateway/internal/model"
)

// FavoriteInput is what a caller supplies to save a favorite
type FavoriteInput struct {
	MealID       string
	Name         string
	ThumbnailURL string
	Area         string
	Category     string
}

// FavoriteService handles favorite operations
type FavoriteService struct {
	db *gorm.DB
}

// NewFavoriteService creates a new FavoriteService instance
func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// List returns the user's favorites, newest first
func (s *FavoriteService) List(ctx context.Context, userID string) ([]model.Favorite, error) {
	var favorites []model.Favorite
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

// Add saves a favorite. Saving the same meal twice returns the existing row.
func (s *FavoriteService) Add(ctx context.Context, userID string, in FavoriteInput) (*model.Favorite, error) {
	mealID := strings.TrimSpace(in.MealID)
	if mealID == "" {
		return nil, ErrInvalidID
	}

	fav := model.Favorite{
		UserID:       userID,
		MealID:       mealID,
		Name:         strings.TrimSpace(in.Name),
		ThumbnailURL: in.ThumbnailURL,
		Area:         in.Area,
		Category:     in.Category,
	}
	db := s.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
		return nil, fmt.Errorf("add favorite: %w", err)
	}

	var stored model.Favorite
	if err := db.Where("user_id = ? AND meal_id = ?", userID, mealID).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("load favorite: %w", err)
	}
	return &stored, nil
}

// Remove deletes a favorite by its id or by the meal id
func (s *FavoriteService) Remove(ctx context.Context, userID, key string) error {
	res := byIDOrMealID(s.db.WithContext(ctx).Where("user_id = ?", userID), key).
		Delete(&model.Favorite{})
	if res.Error != nil {
		return fmt.Errorf("remove favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// byIDOrMealID narrows q to the row whose uuid or meal id equals key
func byIDOrMealID(q *gorm.DB, key string) *gorm.DB {
	key = strings.TrimSpace(key)
	if id, err := uuid.Parse(key); err == nil {
		return q.Where("(id = ? OR meal_id = ?)", id, key)
	}
	return q.Where("meal_id = ?", key)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
