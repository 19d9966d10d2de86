package repositories

import (
	"github.com/clashart/backend/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the relational schema. Users come first
// so the follow and comment foreign keys can reference them.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
		&models.CompetitionTheme{},
		&models.Notification{},
	)
}
