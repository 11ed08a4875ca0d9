package repository

import (
	"context"

	"github.com/yukikurage/task-analytics-api/internal/models"
	"gorm.io/gorm"
)

// idChunkSize bounds the number of bind parameters in one IN list
const idChunkSize = 500

// GormAnalyticsRepository is a GORM implementation of AnalyticsRepository
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

// CountTasksByStatus counts tasks per status ID
func (r *GormAnalyticsRepository) CountTasksByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("status_id, COUNT(*) AS task_count").
		Group("status_id").
		Scan(&counts).Error
	return counts, err
}

// ListTaskCostsByStatus returns the ID and cost of every task in a status
func (r *GormAnalyticsRepository) ListTaskCostsByStatus(ctx context.Context, statusID uint64) ([]TaskCost, error) {
	var rows []TaskCost
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("id, cost").
		Where("status_id = ?", statusID).
		Order("id ASC").
		Scan(&rows).Error
	return rows, err
}

// ListTaskCosts returns the ID and cost of the given tasks
func (r *GormAnalyticsRepository) ListTaskCosts(ctx context.Context, taskIDs []uint64) ([]TaskCost, error) {
	rows := make([]TaskCost, 0, len(taskIDs))
	for _, chunk := range chunkIDs(taskIDs, idChunkSize) {
		var part []TaskCost
		if err := r.db.WithContext(ctx).Model(&models.Task{}).
			Select("id, cost").
			Where("id IN ?", chunk).
			Scan(&part).Error; err != nil {
			return nil, err
		}
		rows = append(rows, part...)
	}
	return rows, nil
}

// ListAssignmentsByTaskStatus returns the bridge rows of every task in a status
func (r *GormAnalyticsRepository) ListAssignmentsByTaskStatus(ctx context.Context, statusID uint64) ([]AssignmentRow, error) {
	db := r.db.WithContext(ctx)
	taskIDs := db.Model(&models.Task{}).Select("id").Where("status_id = ?", statusID)

	var rows []AssignmentRow
	err := db.Model(&models.TaskAssignment{}).
		Select("task_id, user_id").
		Where("task_id IN (?)", taskIDs).
		Scan(&rows).Error
	return rows, err
}

// ListAssignmentsForUsers returns the bridge rows held by the given users on
// tasks in a status
func (r *GormAnalyticsRepository) ListAssignmentsForUsers(ctx context.Context, statusID uint64, userIDs []uint64) ([]AssignmentRow, error) {
	db := r.db.WithContext(ctx)
	rows := make([]AssignmentRow, 0)
	for _, chunk := range chunkIDs(userIDs, idChunkSize) {
		taskIDs := db.Model(&models.Task{}).Select("id").Where("status_id = ?", statusID)

		var part []AssignmentRow
		if err := db.Model(&models.TaskAssignment{}).
			Select("task_id, user_id").
			Where("user_id IN ?", chunk).
			Where("task_id IN (?)", taskIDs).
			Scan(&part).Error; err != nil {
			return nil, err
		}
		rows = append(rows, part...)
	}
	return rows, nil
}

func chunkIDs(ids []uint64, size int) [][]uint64 {
	var chunks [][]uint64
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
