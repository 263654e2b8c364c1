package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Days of the planner week, in display order
var Days = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// MealTypes accepted for a planned meal
var MealTypes = []string{"Breakfast", "Lunch", "Dinner", "Snack"}

// PlannedMeal is one entry of a user's weekly plan. MealID optionally links
// the entry to a catalog meal so it can feed the shopping list.
type PlannedMeal struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    string    `gorm:"size:128;not null;uniqueIndex:idx_planned_user_day_position" json:"-"`
	Day       string    `gorm:"size:3;not null;uniqueIndex:idx_planned_user_day_position" json:"day"`
	Position  int       `gorm:"not null;uniqueIndex:idx_planned_user_day_position" json:"position"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Cuisine   string    `gorm:"size:64" json:"cuisine"`
	Type      string    `gorm:"size:16;not null" json:"type"`
	MealID    string    `gorm:"size:64" json:"mealId,omitempty"`
}

func (PlannedMeal) TableName() string {
	return "planned_meals"
}

func (p *PlannedMeal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DayIndex is the position of day within Days, or len(Days) for an unknown day
func DayIndex(day string) int {
	for i, d := range Days {
		if d == day {
			return i
		}
	}
	return len(Days)
}

// ValidDay reports whether day is one of Days
func ValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// ValidMealType reports whether t is one of MealTypes
func ValidMealType(t string) bool {
	for _, m := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}
