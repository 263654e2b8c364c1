package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite is a meal a user saved to cook again
type Favorite struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UserID       string    `gorm:"size:128;not null;uniqueIndex:idx_favorite_user_meal" json:"-"`
	MealID       string    `gorm:"size:64;not null;uniqueIndex:idx_favorite_user_meal" json:"mealId"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	ThumbnailURL string    `gorm:"size:512" json:"thumbnailUrl,omitempty"`
	Area         string    `gorm:"size:64" json:"area,omitempty"`
	Category     string    `gorm:"size:64" json:"category,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// BeforeCreate assigns the id when the caller did not
func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
