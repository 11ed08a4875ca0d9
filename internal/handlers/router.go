package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-analytics-api/internal/middleware"
	"github.com/yukikurage/task-analytics-api/internal/repository"
	"github.com/yukikurage/task-analytics-api/internal/services"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers on top of db and
// registers every route.
func NewRouter(db *gorm.DB) *gin.Engine {
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	taskService := services.NewTaskService(taskRepo, catalogRepo)
	userService := services.NewUserService(userRepo, catalogRepo)
	analyticsService := services.NewAnalyticsService(analyticsRepo, userRepo, catalogRepo)

	taskHandler := NewTaskHandler(taskService)
	userHandler := NewUserHandler(userService, analyticsService)
	analyticsHandler := NewAnalyticsHandler(analyticsService)

	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	r.GET("/health", Health(db))

	api := r.Group("/api")
	{
		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", middleware.RequireIDParam("task"), taskHandler.GetTask)
			tasks.PATCH("/:id", middleware.RequireIDParam("task"), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireIDParam("task"), taskHandler.DeleteTask)
			tasks.POST("/:id/assign", middleware.RequireIDParam("task"), taskHandler.AssignUsers)
			tasks.PUT("/:id/assignees", middleware.RequireIDParam("task"), taskHandler.ReplaceAssignees)
		}

		users := api.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:id", middleware.RequireIDParam("user"), userHandler.GetUser)
			users.PATCH("/:id", middleware.RequireIDParam("user"), userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequireIDParam("user"), userHandler.DeleteUser)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("", analyticsHandler.Overview)
			analytics.GET("/status", analyticsHandler.StatusBreakdown)
			analytics.GET("/top-users", analyticsHandler.TopUsers)
		}
	}

	return r
}

// Health reports whether the database answers a ping
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Analytics API is running",
		})
	}
}
