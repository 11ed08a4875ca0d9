package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/task-analytics-api/internal/models"
	"github.com/yukikurage/task-analytics-api/internal/repository"
	"gorm.io/gorm"
)

// TaskService handles task business logic. It is the only writer of
// assignment rows, and every write it performs runs in one transaction.
type TaskService struct {
	taskRepo    repository.TaskRepository
	catalogRepo repository.CatalogRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, catalogRepo repository.CatalogRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		catalogRepo: catalogRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title          string
	Description    *string
	EstimatedHours decimal.Decimal
	SpentHours     *decimal.Decimal
	DueDate        time.Time
	Status         string
	Cost           decimal.Decimal
	AssigneeIDs    []uint64
}

// AssigneeUpdate distinguishes "leave assignees alone" (the zero value) from
// "replace them with IDs", where IDs may be empty to clear every assignee.
type AssigneeUpdate struct {
	Replace bool
	IDs     []uint64
}

// ReplaceWith returns an update that replaces the assignee set with ids
func ReplaceWith(ids ...uint64) AssigneeUpdate {
	return AssigneeUpdate{Replace: true, IDs: ids}
}

// UpdateTaskInput represents input for updating a task. Nil fields are
// left unchanged.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	EstimatedHours *decimal.Decimal
	SpentHours     *decimal.Decimal
	DueDate        *time.Time
	Status         *string
	Cost           *decimal.Decimal
	Assignees      AssigneeUpdate
}

// ListTasks returns tasks matching the filter, newest first
func (s *TaskService) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task with its status and assignees
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, repository.TaskDetailPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask creates a task and its assignments atomically
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	status, err := s.resolveStatus(ctx, input.Status)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		EstimatedHours: input.EstimatedHours,
		SpentHours:     nullDecimal(input.SpentHours),
		DueDate:        input.DueDate.UTC(),
		StatusID:       status.ID,
		Cost:           input.Cost,
	}
	userIDs := uniqueUint64(input.AssigneeIDs)

	err = s.taskRepo.Transaction(ctx, func(tx repository.TaskRepository) error {
		if err := ensureUsersExist(ctx, tx, userIDs); err != nil {
			return err
		}
		if err := tx.Create(ctx, task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		if err := tx.InsertAssignments(ctx, task.ID, userIDs); err != nil {
			return fmt.Errorf("failed to assign users: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTask(ctx, task.ID)
}

// UpdateTask applies a partial update and, when requested, replaces the
// assignee set in the same transaction.
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	if _, err := s.findTask(ctx, taskID); err != nil {
		return nil, err
	}

	var status *models.TaskStatus
	if input.Status != nil {
		var err error
		if status, err = s.resolveStatus(ctx, *input.Status); err != nil {
			return nil, err
		}
	}

	err := s.taskRepo.Transaction(ctx, func(tx repository.TaskRepository) error {
		task, err := lockTask(ctx, tx, taskID)
		if err != nil {
			return err
		}

		var userIDs []uint64
		if input.Assignees.Replace {
			userIDs = uniqueUint64(input.Assignees.IDs)
			if err := ensureUsersExist(ctx, tx, userIDs); err != nil {
				return err
			}
		}

		applyTaskUpdate(task, input, status)
		if err := tx.Update(ctx, task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		if input.Assignees.Replace {
			return replaceAssignments(ctx, tx, taskID, userIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTask(ctx, taskID)
}

// ReplaceAssignees makes the task's assignee set exactly the de-duplicated
// userIDs. When any ID is unknown the prior set is left untouched.
func (s *TaskService) ReplaceAssignees(ctx context.Context, taskID uint64, userIDs []uint64) (*models.Task, error) {
	ids := uniqueUint64(userIDs)

	err := s.taskRepo.Transaction(ctx, func(tx repository.TaskRepository) error {
		if _, err := lockTask(ctx, tx, taskID); err != nil {
			return err
		}
		if err := ensureUsersExist(ctx, tx, ids); err != nil {
			return err
		}
		return replaceAssignments(ctx, tx, taskID, ids)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTask(ctx, taskID)
}

// AssignUsers adds users to a task without removing existing assignees
func (s *TaskService) AssignUsers(ctx context.Context, taskID uint64, userIDs []uint64) (*models.Task, error) {
	if len(userIDs) == 0 {
		return nil, ErrNoUserIDsProvided
	}
	ids := uniqueUint64(userIDs)

	err := s.taskRepo.Transaction(ctx, func(tx repository.TaskRepository) error {
		if _, err := lockTask(ctx, tx, taskID); err != nil {
			return err
		}
		if err := ensureUsersExist(ctx, tx, ids); err != nil {
			return err
		}
		if err := tx.InsertAssignments(ctx, taskID, ids); err != nil {
			return fmt.Errorf("failed to assign users: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTask(ctx, taskID)
}

// DeleteTask deletes a task together with its assignments
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) error {
	return s.taskRepo.Transaction(ctx, func(tx repository.TaskRepository) error {
		if _, err := lockTask(ctx, tx, taskID); err != nil {
			return err
		}
		if err := tx.DeleteAssignments(ctx, taskID); err != nil {
			return fmt.Errorf("failed to delete task assignments: %w", err)
		}
		if err := tx.Delete(ctx, taskID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
}

func (s *TaskService) findTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) resolveStatus(ctx context.Context, name string) (*models.TaskStatus, error) {
	status, err := s.catalogRepo.FindStatusByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidStatus
		}
		return nil, fmt.Errorf("failed to resolve task status: %w", err)
	}
	return status, nil
}

// lockTask loads the task inside tx and holds its row lock until commit
func lockTask(ctx context.Context, tx repository.TaskRepository, taskID uint64) (*models.Task, error) {
	task, err := tx.FindByIDForUpdate(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ensureUsersExist checks every ID with one batched count. ids must
// already be de-duplicated.
func ensureUsersExist(ctx context.Context, tx repository.TaskRepository, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := tx.CountUsersByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to verify users: %w", err)
	}
	if int(count) != len(ids) {
		return ErrInvalidAssignee
	}
	return nil
}

func replaceAssignments(ctx context.Context, tx repository.TaskRepository, taskID uint64, ids []uint64) error {
	if err := tx.DeleteAssignments(ctx, taskID); err != nil {
		return fmt.Errorf("failed to clear assignees: %w", err)
	}
	if err := tx.InsertAssignments(ctx, taskID, ids); err != nil {
		return fmt.Errorf("failed to assign users: %w", err)
	}
	return nil
}

func applyTaskUpdate(task *models.Task, input UpdateTaskInput, status *models.TaskStatus) {
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.EstimatedHours != nil {
		task.EstimatedHours = *input.EstimatedHours
	}
	if input.SpentHours != nil {
		task.SpentHours = nullDecimal(input.SpentHours)
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate.UTC()
	}
	if input.Cost != nil {
		task.Cost = *input.Cost
	}
	if status != nil {
		task.StatusID = status.ID
	}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
