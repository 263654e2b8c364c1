package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cookup/gateway/internal/model"
)

// RatingInput is what a caller supplies to rate a meal
type RatingInput struct {
	MealID  string
	Name    string
	Score   int
	Comment string
}

// RatingService handles rating operations
type RatingService struct {
	db *gorm.DB
}

// NewRatingService creates a new RatingService instance
func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// List returns the user's ratings, most recently changed first
func (s *RatingService) List(ctx context.Context, userID string) ([]model.Rating, error) {
	var ratings []model.Rating
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}

// Rate records the user's score for a meal, replacing an earlier one
func (s *RatingService) Rate(ctx context.Context, userID string, in RatingInput) (*model.Rating, error) {
	mealID := strings.TrimSpace(in.MealID)
	if mealID == "" {
		return nil, ErrInvalidID
	}
	if in.Score < model.MinScore || in.Score > model.MaxScore {
		return nil, ErrInvalidScore
	}

	var rating model.Rating
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND meal_id = ?", userID, mealID).First(&rating).Error
		switch {
		case isNotFound(err):
			rating = model.Rating{
				UserID:  userID,
				MealID:  mealID,
				Name:    strings.TrimSpace(in.Name),
				Score:   in.Score,
				Comment: in.Comment,
			}
			return tx.Create(&rating).Error
		case err != nil:
			return err
		}

		rating.Score = in.Score
		rating.Comment = in.Comment
		if name := strings.TrimSpace(in.Name); name != "" {
			rating.Name = name
		}
		return tx.Save(&rating).Error
	})
	if err != nil {
		return nil, fmt.Errorf("rate meal: %w", err)
	}
	return &rating, nil
}

// Remove deletes a rating by its id or by the meal id
func (s *RatingService) Remove(ctx context.Context, userID, key string) error {
	res := byIDOrMealID(s.db.WithContext(ctx).Where("user_id = ?", userID), key).
		Delete(&model.Rating{})
	if res.Error != nil {
		return fmt.Errorf("remove rating: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRatingNotFound
	}
	return nil
}
