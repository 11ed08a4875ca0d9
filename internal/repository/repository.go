package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/task-analytics-api/internal/models"
)

// TaskRepository defines the interface for task and assignment data access.
// Implementations returned by Transaction share one database transaction.
type TaskRepository interface {
	// Transaction runs fn inside a single transaction; any error rolls back
	Transaction(ctx context.Context, fn func(tx TaskRepository) error) error

	// Create inserts the task row only, never its associations
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// FindByIDForUpdate finds a task and locks its row until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uint64) (*models.Task, error)

	// List retrieves tasks matching the filter, newest first
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update saves the task's own columns
	Update(ctx context.Context, task *models.Task) error

	// Delete removes the task row
	Delete(ctx context.Context, id uint64) error

	// InsertAssignments inserts one row per user, skipping pairs that already exist
	InsertAssignments(ctx context.Context, taskID uint64, userIDs []uint64) error

	// DeleteAssignments removes every assignment of a task
	DeleteAssignments(ctx context.Context, taskID uint64) error

	// CountUsersByIDs counts how many of the given user IDs exist. Inside a
	// transaction the matched rows stay share-locked until it ends.
	CountUsersByIDs(ctx context.Context, userIDs []uint64) (int64, error)
}

// TaskFilter holds the optional criteria for listing tasks. Nil or empty
// fields impose no constraint.
type TaskFilter struct {
	Status        *string
	TitleContains *string
	DueDateFrom   *time.Time
	DueDateTo     *time.Time
	AssigneeID    *uint64
	AssigneeQuery *string
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Transaction runs fn inside a single transaction; any error rolls back
	Transaction(ctx context.Context, fn func(tx UserRepository) error) error

	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID with its role
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByIDForUpdate finds a user and locks its row until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByIDs returns the users with the given IDs, in no particular order
	FindByIDs(ctx context.Context, ids []uint64) ([]models.User, error)

	// List retrieves users matching the filter, newest first
	List(ctx context.Context, filter UserFilter) ([]models.User, error)

	// Update saves the user's own columns
	Update(ctx context.Context, user *models.User) error

	// Delete removes the user row
	Delete(ctx context.Context, id uint64) error

	// DeleteAssignments removes every assignment held by a user
	DeleteAssignments(ctx context.Context, userID uint64) error
}

// UserFilter holds the optional criteria for listing users
type UserFilter struct {
	// Query matches name or email, case-insensitively
	Query *string
	Role  *string
}

// CatalogRepository resolves fixed enumeration rows by name
type CatalogRepository interface {
	FindStatusByName(ctx context.Context, name string) (*models.TaskStatus, error)
	FindRoleByName(ctx context.Context, name string) (*models.UserRole, error)
	ListStatuses(ctx context.Context) ([]models.TaskStatus, error)
}

// TaskCost is a task ID paired with its cost
type TaskCost struct {
	ID   uint64
	Cost decimal.Decimal
}

// AssignmentRow is a bare bridge row
type AssignmentRow struct {
	TaskID uint64
	UserID uint64
}

// StatusCount is the number of tasks holding one status
type StatusCount struct {
	StatusID uint64
	Count    int64 `gorm:"column:task_count"`
}

// AnalyticsRepository reads the raw rows analytics are computed from.
// It performs no aggregation over assignments; callers do that.
type AnalyticsRepository interface {
	// CountTasksByStatus counts tasks per status ID
	CountTasksByStatus(ctx context.Context) ([]StatusCount, error)

	// ListTaskCostsByStatus returns the ID and cost of every task in a status
	ListTaskCostsByStatus(ctx context.Context, statusID uint64) ([]TaskCost, error)

	// ListTaskCosts returns the ID and cost of the given tasks
	ListTaskCosts(ctx context.Context, taskIDs []uint64) ([]TaskCost, error)

	// ListAssignmentsByTaskStatus returns the bridge rows of every task in a status
	ListAssignmentsByTaskStatus(ctx context.Context, statusID uint64) ([]AssignmentRow, error)

	// ListAssignmentsForUsers returns the bridge rows held by the given users
	// on tasks in a status
	ListAssignmentsForUsers(ctx context.Context, statusID uint64, userIDs []uint64) ([]AssignmentRow, error)
}
