package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/cookup/gateway/internal/model"
)

// Models lists every table the gateway owns
func Models() []interface{} {
	return []interface{}{
		&model.Favorite{},
		&model.Rating{},
		&model.PlannedMeal{},
	}
}

// RunMigrations creates or updates the gateway tables
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
