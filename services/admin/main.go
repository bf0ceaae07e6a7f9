package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yoonly93/posikiCS/shared/config"
	"github.com/yoonly93/posikiCS/shared/middleware"
	"github.com/yoonly93/posikiCS/shared/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	// Initialize Redis for token caching and form index invalidation
	if err := utils.InitRedis(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer utils.CloseRedis()

	// Initialize database
	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := config.MigrateDatabase(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize authentication middleware
	authMiddleware := middleware.NewAuthMiddleware(db)

	// AI document assistant client
	assistant := NewAssistantClient()

	// Initialize Gin router
	router := gin.Default()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		utils.OKResponse(c, "Admin service is healthy", nil)
	})

	admin := router.Group("/admin")
	admin.Use(authMiddleware.RequireAuth())
	{
		// App registry
		admin.GET("/apps", handleListApps(db))
		admin.POST("/apps", handleAddApp(db))
		admin.PATCH("/apps/:id", handleUpdateApp(db))
		admin.POST("/apps/:id/rename", handleRenameApp(db))
		admin.DELETE("/apps/:id", handleDeleteApp(db))

		// Legal document store
		admin.GET("/legal/:appId/:docType", handleListPublishedLanguages(db))
		admin.GET("/legal/:appId/:docType/:lang", handleGetLegalDoc(db))
		admin.PUT("/legal/:appId/:docType/:lang/draft", handleSaveDraft(db))
		admin.POST("/legal/:appId/:docType/:lang/publish", handlePublish(db))

		// AI document assistant
		admin.POST("/legal/:appId/:docType/:lang/translate", handleTranslateDoc(db, assistant))
		admin.POST("/legal/:appId/:docType/:lang/review", handleReviewDoc(db, assistant))

		// Contact form configuration
		admin.GET("/forms", handleListForms(db))
		admin.PUT("/forms/:formId", handleUpsertForm(db))
		admin.DELETE("/forms/:formId", handleDeleteForm(db))

		// Contact inbox
		admin.GET("/contacts", handleListContacts(db))
		admin.POST("/contacts/:id/read", handleMarkContactRead(db))

		// Settings
		admin.GET("/settings/api-key", handleGetAPIKey(db))
		admin.PUT("/settings/api-key", handleSetAPIKey(db))
	}

	// Start server
	port := os.Getenv("ADMIN_SERVICE_PORT")
	if port == "" {
		port = "8002"
	}

	logrus.Infof("Admin service starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start admin service:", err)
	}
}
