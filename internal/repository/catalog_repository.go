package repository

import (
	"context"

	"github.com/yukikurage/task-analytics-api/internal/models"
	"gorm.io/gorm"
)

// GormCatalogRepository is a GORM implementation of CatalogRepository
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &GormCatalogRepository{db: db}
}

// FindStatusByName finds a task status by its unique name
func (r *GormCatalogRepository) FindStatusByName(ctx context.Context, name string) (*models.TaskStatus, error) {
	var status models.TaskStatus
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// FindRoleByName finds a user role by its unique name
func (r *GormCatalogRepository) FindRoleByName(ctx context.Context, name string) (*models.UserRole, error) {
	var role models.UserRole
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// ListStatuses returns every task status ordered by ID
func (r *GormCatalogRepository) ListStatuses(ctx context.Context) ([]models.TaskStatus, error) {
	var statuses []models.TaskStatus
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}
