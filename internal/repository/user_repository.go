package repository

import (
	"context"

	"github.com/yukikurage/task-analytics-api/internal/database"
	"github.com/yukikurage/task-analytics-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Transaction runs fn with a repository bound to one transaction
func (r *GormUserRepository) Transaction(ctx context.Context, fn func(tx UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormUserRepository{db: tx})
	})
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDForUpdate finds a user and locks its row until the transaction ends
func (r *GormUserRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*models.User, error) {
	query := r.db.WithContext(ctx)
	if supportsRowLocks(r.db) {
		query = query.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	var user models.User
	if err := query.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs returns the users with the given IDs
func (r *GormUserRepository) FindByIDs(ctx context.Context, ids []uint64) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Preload("Role").
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// List retrieves users matching the filter
func (r *GormUserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	var users []models.User

	db := r.db.WithContext(ctx)
	query := db.Model(&models.User{}).Preload("Role")

	if text, ok := matchText(filter.Query); ok {
		pattern := database.ContainsPattern(text)
		query = query.Where("(LOWER(users.name) LIKE ?"+database.LikeEscape+" OR LOWER(users.email) LIKE ?"+database.LikeEscape+")", pattern, pattern)
	}
	if filter.Role != nil {
		roleIDs := db.Model(&models.UserRole{}).
			Select("id").
			Where("name = ?", *filter.Role)
		query = query.Where("users.role_id IN (?)", roleIDs)
	}

	if err := query.Scopes(database.NewestFirst("users")).Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// Update updates a user
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

// Delete hard deletes a user row
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// DeleteAssignments removes every assignment held by a user
func (r *GormUserRepository) DeleteAssignments(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).
		Delete(&models.TaskAssignment{}).Error
}
