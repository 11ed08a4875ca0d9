package database

import (
	"fmt"

	"github.com/yukikurage/task-analytics-api/internal/logging"
	"github.com/yukikurage/task-analytics-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates or updates the schema and seeds the catalog tables.
func Migrate(db *gorm.DB) error {
	logging.Logger.Info("Running database migrations...")
	err := db.AutoMigrate(
		&models.TaskStatus{},
		&models.UserRole{},
		&models.User{},
		&models.Task{},
		&models.TaskAssignment{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := SeedCatalog(db); err != nil {
		return err
	}

	logging.Logger.Info("Database migrations completed")
	return nil
}

// SeedCatalog inserts every task status and user role that is missing.
// Existing rows are left untouched, so it is safe to run on every start.
func SeedCatalog(db *gorm.DB) error {
	statuses := make([]models.TaskStatus, len(models.TaskStatusNames))
	for i, name := range models.TaskStatusNames {
		statuses[i] = models.TaskStatus{Name: name}
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&statuses).Error; err != nil {
		return fmt.Errorf("failed to seed task statuses: %w", err)
	}

	roles := make([]models.UserRole, len(models.UserRoleNames))
	for i, name := range models.UserRoleNames {
		roles[i] = models.UserRole{Name: name}
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&roles).Error; err != nil {
		return fmt.Errorf("failed to seed user roles: %w", err)
	}

	return nil
}
