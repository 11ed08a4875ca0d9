package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-analytics-api/internal/dto"
	apierrors "github.com/yukikurage/task-analytics-api/internal/errors"
	"github.com/yukikurage/task-analytics-api/internal/middleware"
	"github.com/yukikurage/task-analytics-api/internal/models"
	"github.com/yukikurage/task-analytics-api/internal/repository"
	"github.com/yukikurage/task-analytics-api/internal/services"
	"github.com/yukikurage/task-analytics-api/internal/utils"
)

type UserHandler struct {
	userService      *services.UserService
	analyticsService *services.AnalyticsService
}

func NewUserHandler(userService *services.UserService, analyticsService *services.AnalyticsService) *UserHandler {
	return &UserHandler{
		userService:      userService,
		analyticsService: analyticsService,
	}
}

type createUserRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Email string `json:"email" binding:"required,email,max=255"`
	Role  string `json:"role"`
}

type updateUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=255"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
	Role  *string `json:"role"`
}

// CreateUser registers a user. Role defaults to MEMBER.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}

	user, err := h.userService.CreateUser(c.Request.Context(), services.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  role,
	})
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDetailDTO(*user))
}

// ListUsers returns the filtered users, each with completed-task totals
func (h *UserHandler) ListUsers(c *gin.Context) {
	filter := repository.UserFilter{
		Query: utils.OptionalText(c, "q"),
		Role:  utils.OptionalString(c, "role"),
	}

	stats, err := h.analyticsService.EnrichedUserList(c.Request.Context(), filter)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(stats))
}

// GetUser returns a specific user by ID
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := middleware.GetEntityID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDetailDTO(*user))
}

// UpdateUser applies a partial update to a user
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := middleware.GetEntityID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), userID, services.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDetailDTO(*user))
}

// DeleteUser deletes a user and unassigns them from every task
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := middleware.GetEntityID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
