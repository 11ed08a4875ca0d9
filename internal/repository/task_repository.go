package repository

import (
	"context"
	"time"

	"github.com/yukikurage/task-analytics-api/internal/database"
	"github.com/yukikurage/task-analytics-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Transaction runs fn with a repository bound to one transaction
func (r *GormTaskRepository) Transaction(ctx context.Context, fn func(tx TaskRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormTaskRepository{db: tx})
	})
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p, orderedPreload(p))
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// FindByIDForUpdate locks the task row so that concurrent replacements or
// deletions of the same task queue behind the current transaction.
// SQLite has no row locks; its writers are already serialised.
func (r *GormTaskRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)
	if supportsRowLocks(r.db) {
		query = query.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks matching the filter
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.WithContext(ctx).Model(&models.Task{}).
		Scopes(filter.Scope, database.NewestFirst("tasks"))

	for _, p := range TaskDetailPreloads {
		query = query.Preload(p, orderedPreload(p))
	}

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

// Delete hard deletes a task row
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.Task{}, id).Error
}

// InsertAssignments assigns multiple users to a task. Pairs that already
// exist are left as they are.
func (r *GormTaskRepository) InsertAssignments(ctx context.Context, taskID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	assignments := make([]models.TaskAssignment, len(userIDs))
	for i, userID := range userIDs {
		assignments[i] = models.TaskAssignment{
			TaskID:     taskID,
			UserID:     userID,
			AssignedAt: now,
		}
	}

	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&assignments).Error
}

// DeleteAssignments removes all user assignments from a task
func (r *GormTaskRepository) DeleteAssignments(ctx context.Context, taskID uint64) error {
	return r.db.WithContext(ctx).Where("task_id = ?", taskID).
		Delete(&models.TaskAssignment{}).Error
}

// CountUsersByIDs counts how many of the given user IDs exist and share-locks
// the matching rows
func (r *GormTaskRepository) CountUsersByIDs(ctx context.Context, userIDs []uint64) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	query := r.db.WithContext(ctx).Model(&models.User{}).Where("id IN ?", userIDs)
	if supportsRowLocks(r.db) {
		// held until commit so the users cannot be deleted under a new assignment
		query = query.Clauses(clause.Locking{Strength: clause.LockingStrengthShare})
	}

	var count int64
	err := query.Count(&count).Error

	return count, err
}

// TaskDetailPreloads are the relations rendered with every task
var TaskDetailPreloads = []string{"Status", "Assignments", "Assignments.User"}

// orderedPreload keeps preloaded assignments in a stable order
func orderedPreload(relation string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if relation == "Assignments" {
			return db.Order("task_assignments.user_id ASC")
		}
		return db
	}
}

func supportsRowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() != "sqlite"
}
