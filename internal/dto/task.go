package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/yukikurage/task-analytics-api/internal/models"
)

// StatusDTO represents a catalog status in API responses
type StatusDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// AssigneeDTO represents one assignment of a task
type AssigneeDTO struct {
	AssignedAt time.Time `json:"assigned_at"`
	User       UserDTO   `json:"user"`
}

// TaskDTO represents a task in API responses. Decimal columns are rendered
// as strings so no precision is lost on the client.
type TaskDTO struct {
	ID             uint64        `json:"id"`
	Title          string        `json:"title"`
	Description    *string       `json:"description"`
	EstimatedHours string        `json:"estimated_hours"`
	SpentHours     *string       `json:"spent_hours"`
	DueDate        time.Time     `json:"due_date"`
	Cost           string        `json:"cost"`
	Status         StatusDTO     `json:"status"`
	Assignees      []AssigneeDTO `json:"assignees"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// TaskListResponse wraps a task list
type TaskListResponse struct {
	Tasks []TaskDTO `json:"tasks"`
	Count int       `json:"count"`
}

// OptionalIDs is a JSON array of IDs that remembers whether the field was
// present in the request body. A JSON null counts as present and empty.
type OptionalIDs struct {
	Set bool
	IDs []uint64
}

// UnmarshalJSON is only called when the key is present
func (o *OptionalIDs) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.IDs = []uint64{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	return json.Unmarshal(data, &o.IDs)
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		EstimatedHours: task.EstimatedHours.StringFixed(2),
		DueDate:        task.DueDate,
		Cost:           task.Cost.StringFixed(2),
		Status:         StatusDTO{ID: task.Status.ID, Name: task.Status.Name},
		Assignees:      make([]AssigneeDTO, len(task.Assignments)),
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	if task.SpentHours.Valid {
		spent := task.SpentHours.Decimal.StringFixed(2)
		dto.SpentHours = &spent
	}

	for i, assignment := range task.Assignments {
		dto.Assignees[i] = AssigneeDTO{
			AssignedAt: assignment.AssignedAt,
			User:       ToUserDTO(assignment.User),
		}
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return TaskListResponse{Tasks: items, Count: len(items)}
}
