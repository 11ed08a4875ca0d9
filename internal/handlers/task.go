package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yukikurage/task-analytics-api/internal/dto"
	apierrors "github.com/yukikurage/task-analytics-api/internal/errors"
	"github.com/yukikurage/task-analytics-api/internal/middleware"
	"github.com/yukikurage/task-analytics-api/internal/models"
	"github.com/yukikurage/task-analytics-api/internal/repository"
	"github.com/yukikurage/task-analytics-api/internal/services"
	"github.com/yukikurage/task-analytics-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

type createTaskRequest struct {
	Title          string           `json:"title" binding:"required,max=255"`
	Description    *string          `json:"description"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours" binding:"required"`
	SpentHours     *decimal.Decimal `json:"spent_hours"`
	DueDate        *time.Time       `json:"due_date" binding:"required"`
	Status         string           `json:"status"`
	Cost           *decimal.Decimal `json:"cost" binding:"required"`
	AssigneeIDs    []uint64         `json:"assignee_ids" binding:"omitempty,dive,gt=0"`
}

type updateTaskRequest struct {
	Title          *string          `json:"title" binding:"omitempty,min=1,max=255"`
	Description    *string          `json:"description"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours"`
	SpentHours     *decimal.Decimal `json:"spent_hours"`
	DueDate        *time.Time       `json:"due_date"`
	Status         *string          `json:"status"`
	Cost           *decimal.Decimal `json:"cost"`
	AssigneeIDs    dto.OptionalIDs  `json:"assignee_ids"`
}

type assignUsersRequest struct {
	AssigneeIDs []uint64 `json:"assignee_ids" binding:"required,min=1,dive,gt=0"`
}

type replaceAssigneesRequest struct {
	AssigneeIDs []uint64 `json:"assignee_ids" binding:"required,dive,gt=0"`
}

// ListTasks returns the tasks matching the query filters, newest first
func (h *TaskHandler) ListTasks(c *gin.Context) {
	filter, err := taskFilterFromQuery(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), filter)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := middleware.GetEntityID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task, optionally with assignees
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	if err := nonNegative(map[string]*decimal.Decimal{
		"estimated_hours": req.EstimatedHours,
		"spent_hours":     req.SpentHours,
		"cost":            req.Cost,
	}); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusActive
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		EstimatedHours: *req.EstimatedHours,
		SpentHours:     req.SpentHours,
		DueDate:        *req.DueDate,
		Status:         status,
		Cost:           *req.Cost,
		AssigneeIDs:    req.AssigneeIDs,
	})
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. assignee_ids replaces the whole
// assignee set when present; an empty array or null clears it.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := middleware.GetEntityID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	if err := nonNegative(map[string]*decimal.Decimal{
		"estimated_hours": req.EstimatedHours,
		"spent_hours":     req.SpentHours,
		"cost":            req.Cost,
	}); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	for _, id := range req.AssigneeIDs.IDs {
		if id == 0 {
			apierrors.BadRequest(c, "assignee_ids must contain positive IDs")
			return
		}
	}

	input := services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		EstimatedHours: req.EstimatedHours,
		SpentHours:     req.SpentHours,
		DueDate:        req.DueDate,
		Status:         req.Status,
		Cost:           req.Cost,
	}
	if req.AssigneeIDs.Set {
		input.Assignees = services.ReplaceWith(req.AssigneeIDs.IDs...)
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, input)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and its assignments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := middleware.GetEntityID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID); err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignUsers adds assignees to a task. Existing assignments are kept.
func (h *TaskHandler) AssignUsers(c *gin.Context) {
	taskID, ok := middleware.GetEntityID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req assignUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.AssignUsers(c.Request.Context(), taskID, req.AssigneeIDs)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ReplaceAssignees sets the assignee set of a task to exactly the given IDs
func (h *TaskHandler) ReplaceAssignees(c *gin.Context) {
	taskID, ok := middleware.GetEntityID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req replaceAssigneesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.ReplaceAssignees(c.Request.Context(), taskID, req.AssigneeIDs)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

func taskFilterFromQuery(c *gin.Context) (repository.TaskFilter, error) {
	filter := repository.TaskFilter{
		Status:        utils.OptionalString(c, "status"),
		TitleContains: utils.OptionalText(c, "title"),
		AssigneeQuery: utils.OptionalText(c, "assignee"),
	}

	var err error
	if filter.AssigneeID, err = utils.OptionalUint(c, "assignee_id"); err != nil {
		return filter, err
	}
	if filter.DueDateFrom, err = utils.OptionalTime(c, "due_from", false); err != nil {
		return filter, err
	}
	if filter.DueDateTo, err = utils.OptionalTime(c, "due_to", true); err != nil {
		return filter, err
	}
	return filter, nil
}

func nonNegative(fields map[string]*decimal.Decimal) error {
	for name, value := range fields {
		if value != nil && value.IsNegative() {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}
