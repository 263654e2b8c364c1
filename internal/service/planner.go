package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cookup/gateway/internal/model"
)

const defaultMealType = "Dinner"

// maxAddAttempts bounds the retries of an add that lost its position to a concurrent add
const maxAddAttempts = 5

// PlannerInput is what a caller supplies to add a meal to the week
type PlannerInput struct {
	Day     string
	Title   string
	Cuisine string
	Type    string
	MealID  string
}

// WeekPlan maps every day of the week to its entries in position order
type WeekPlan map[string][]model.PlannedMeal

// TotalMeals counts the entries across the whole week
func (w WeekPlan) TotalMeals() int {
	total := 0
	for _, entries := range w {
		total += len(entries)
	}
	return total
}

func emptyWeek() WeekPlan {
	w := make(WeekPlan, len(model.Days))
	for _, d := range model.Days {
		w[d] = []model.PlannedMeal{}
	}
	return w
}

// PlannerService handles the weekly planner and its shopping list
type PlannerService struct {
	db       *gorm.DB
	resolver IResolver
	logger   *log.Logger
}

// NewPlannerService creates a new PlannerService instance
func NewPlannerService(db *gorm.DB, resolver IResolver, logger *log.Logger) *PlannerService {
	if logger == nil {
		logger = log.Default()
	}
	return &PlannerService{
		db:       db,
		resolver: resolver,
		logger:   logger.With("component", "planner"),
	}
}

// Week returns the user's plan; days without entries are present and empty
func (s *PlannerService) Week(ctx context.Context, userID string) (WeekPlan, error) {
	var entries []model.PlannedMeal
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load week: %w", err)
	}

	week := emptyWeek()
	for _, e := range entries {
		if _, ok := week[e.Day]; ok {
			week[e.Day] = append(week[e.Day], e)
		}
	}
	return week, nil
}

// Add appends a meal to the end of a day
func (s *PlannerService) Add(ctx context.Context, userID string, in PlannerInput) (*model.PlannedMeal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	day := strings.ToLower(strings.TrimSpace(in.Day))
	if !model.ValidDay(day) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDay, in.Day)
	}
	mealType := strings.TrimSpace(in.Type)
	if mealType == "" {
		mealType = defaultMealType
	}
	if !model.ValidMealType(mealType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMealType, in.Type)
	}

	entry := model.PlannedMeal{
		UserID:  userID,
		Day:     day,
		Title:   title,
		Cuisine: strings.TrimSpace(in.Cuisine),
		Type:    mealType,
		MealID:  strings.TrimSpace(in.MealID),
	}
	var err error
	for attempt := 0; attempt < maxAddAttempts; attempt++ {
		entry.ID = uuid.Nil
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var last int
			if err := tx.Model(&model.PlannedMeal{}).
				Where("user_id = ? AND day = ?", userID, day).
				Select("COALESCE(MAX(position), -1)").
				Scan(&last).Error; err != nil {
				return err
			}
			entry.Position = last + 1
			return tx.Create(&entry).Error
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		s.logger.Debug("planner position taken, retrying", "day", day, "attempt", attempt+1)
	}
	if err != nil {
		return nil, fmt.Errorf("add planned meal: %w", err)
	}
	return &entry, nil
}

// Remove deletes the entry at index within day and closes the gap
func (s *PlannerService) Remove(ctx context.Context, userID, day string, index int) error {
	day = strings.ToLower(strings.TrimSpace(day))
	if !model.ValidDay(day) {
		return fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entries []model.PlannedMeal
		if err := tx.Where("user_id = ? AND day = ?", userID, day).
			Order("position ASC").
			Find(&entries).Error; err != nil {
			return fmt.Errorf("load day: %w", err)
		}
		if index < 0 || index >= len(entries) {
			return ErrEntryNotFound
		}

		if err := tx.Delete(&model.PlannedMeal{}, "id = ?", entries[index].ID).Error; err != nil {
			return fmt.Errorf("remove planned meal: %w", err)
		}
		for i, e := range entries[index+1:] {
			if err := tx.Model(&model.PlannedMeal{}).
				Where("id = ?", e.ID).
				Update("position", index+i).Error; err != nil {
				return fmt.Errorf("reorder day: %w", err)
			}
		}
		return nil
	})
}

// ClearWeek deletes every entry of the user's plan
func (s *PlannerService) ClearWeek(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.PlannedMeal{}).Error; err != nil {
		return fmt.Errorf("clear week: %w", err)
	}
	return nil
}
