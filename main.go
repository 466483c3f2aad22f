package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Alhassan9292/student-portal/handlers"
	"github.com/Alhassan9292/student-portal/storage"
)

func main() {
	// Load .env if present. Variables already set in the environment win.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg := loadConfig()

	store, backend, err := storage.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize %s storage: %v", backend, err)
	}
	log.Printf("Using %s storage backend", backend)

	// Fold a consolidated dataset from an older deployment into per-class
	// storage before serving requests.
	added, err := storage.MigrateLegacyFile(context.Background(), store, cfg.LegacyFile)
	if err != nil {
		log.Printf("Warning: legacy file migration failed: %v", err)
	} else if added > 0 {
		log.Printf("Migrated %d students from %s", added, cfg.LegacyFile)
	}

	service := storage.NewService(store)

	// Create API Handler (injecting the service)
	apiHandler := handlers.NewAPIHandler(service)

	// Initialize Gin router
	router := gin.Default()

	// Setup API routes
	api := router.Group("/api")
	{
		// Student routes
		api.GET("/students", apiHandler.GetStudents)
		api.POST("/students", apiHandler.CreateStudent)
		api.GET("/students/:id", apiHandler.GetStudentByID)
		api.PUT("/students/:id", apiHandler.UpdateStudent)
		api.DELETE("/students/:id", apiHandler.DeleteStudent)

		// Class routes
		api.GET("/classes", apiHandler.GetClasses)

		// Import / export routes
		api.POST("/import/students", apiHandler.ImportStudents)
		api.GET("/export/students", apiHandler.ExportStudents)

		// Ping route
		api.GET("/ping", handlers.PingHandler)
	}

	// Everything else is served as the static frontend.
	router.NoRoute(handlers.StaticFallback(cfg.StaticDir))

	// Start the server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
