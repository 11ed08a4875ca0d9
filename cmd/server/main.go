package main

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-analytics-api/internal/config"
	"github.com/yukikurage/task-analytics-api/internal/database"
	"github.com/yukikurage/task-analytics-api/internal/handlers"
	"github.com/yukikurage/task-analytics-api/internal/logging"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logging.Init(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logging.Logger.WithError(err).Fatal("Failed to connect to database")
	}

	// Run migrations and seed the catalog
	if err := database.Migrate(database.GetDB()); err != nil {
		logging.Logger.WithError(err).Fatal("Failed to run migrations")
	}

	r := handlers.NewRouter(database.GetDB())

	addr := ":" + cfg.Port
	logging.Logger.WithField("addr", addr).Info("Server starting")
	if err := r.Run(addr); err != nil {
		logging.Logger.WithError(err).Fatal("Failed to start server")
	}
}
