// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-analytics-api/internal/database"
	"github.com/yukikurage/task-analytics-api/internal/models"
	"gorm.io/gorm"
)

// OpenDB returns a migrated, seeded in-memory SQLite database private to t.
// The pool is limited to one connection because every connection to
// ":memory:" sees its own empty database.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.SQLite(":memory:"), "silent")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	return db
}

// Fixtures creates rows directly, bypassing the services.
type Fixtures struct {
	T  *testing.T
	DB *gorm.DB
}

func (f Fixtures) Role(name string) models.UserRole {
	var role models.UserRole
	require.NoError(f.T, f.DB.Where("name = ?", name).First(&role).Error)
	return role
}

func (f Fixtures) Status(name string) models.TaskStatus {
	var status models.TaskStatus
	require.NoError(f.T, f.DB.Where("name = ?", name).First(&status).Error)
	return status
}

func (f Fixtures) User(name, email string) *models.User {
	user := &models.User{
		Name:   name,
		Email:  email,
		RoleID: f.Role(models.RoleMember).ID,
	}
	require.NoError(f.T, f.DB.Omit("Role").Create(user).Error)
	return user
}

// Task creates a task with the given status and cost ("12.50"), created at
// createdAt, and assigns the given users.
func (f Fixtures) Task(title, status, cost string, createdAt time.Time, assignees ...*models.User) *models.Task {
	task := &models.Task{
		Title:          title,
		EstimatedHours: decimal.RequireFromString("1"),
		DueDate:        createdAt.Add(7 * 24 * time.Hour),
		StatusID:       f.Status(status).ID,
		Cost:           decimal.RequireFromString(cost),
		CreatedAt:      createdAt,
	}
	return f.Insert(task, assignees...)
}

// Insert creates task as given and assigns the given users.
func (f Fixtures) Insert(task *models.Task, assignees ...*models.User) *models.Task {
	require.NoError(f.T, f.DB.Omit("Status", "Assignments").Create(task).Error)

	for _, u := range assignees {
		require.NoError(f.T, f.DB.Omit("Task", "User").Create(&models.TaskAssignment{
			TaskID:     task.ID,
			UserID:     u.ID,
			AssignedAt: task.CreatedAt,
		}).Error)
	}
	return task
}

// AssigneeIDs returns the user IDs assigned to a task in ascending order.
func (f Fixtures) AssigneeIDs(taskID uint64) []uint64 {
	ids := []uint64{}
	require.NoError(f.T, f.DB.Model(&models.TaskAssignment{}).
		Where("task_id = ?", taskID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error)
	return ids
}
