package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-analytics-api/internal/dto"
	apierrors "github.com/yukikurage/task-analytics-api/internal/errors"
	"github.com/yukikurage/task-analytics-api/internal/services"
	"github.com/yukikurage/task-analytics-api/internal/utils"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// StatusBreakdown returns the task count per status
func (h *AnalyticsHandler) StatusBreakdown(c *gin.Context) {
	counts, err := h.analyticsService.StatusBreakdown(c.Request.Context())
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatusBreakdownResponse(counts))
}

// TopUsers ranks users by the cost of their completed tasks
func (h *AnalyticsHandler) TopUsers(c *gin.Context) {
	limit := utils.GetLimitParam(c)

	stats, err := h.analyticsService.TopUsersByCompletedCost(c.Request.Context(), limit)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTopUsersResponse(limit, stats))
}

// Overview returns the status breakdown and the top users in one response
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	limit := utils.GetLimitParam(c)

	overview, err := h.analyticsService.Overview(c.Request.Context(), limit)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAnalyticsOverviewResponse(limit, overview))
}
