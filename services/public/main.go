package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yoonly93/posikiCS/shared/config"
	"github.com/yoonly93/posikiCS/shared/translate"
	"github.com/yoonly93/posikiCS/shared/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	// Initialize Redis for form index caching
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

	// Best-effort translation client for inbound messages
	translator := translate.NewClient()

	// Kafka publisher for contact notification events
	publisher := NewKafkaPublisher()
	defer publisher.Close()

	// Initialize Gin router
	router := gin.Default()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		utils.OKResponse(c, "Public service is healthy", nil)
	})

	// Form resolution for the embeddable widget
	router.GET("/forms/:formId", handleResolveForm(db))

	// Contact submission
	router.POST("/contacts", handleSubmitContact(db, translator, publisher))

	// Published legal document reader
	router.GET("/legal/:appId/:docType/:lang", handlePublicLegalDoc(db))

	// Start server
	port := os.Getenv("PUBLIC_SERVICE_PORT")
	if port == "" {
		port = "8003"
	}

	logrus.Infof("Public service starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start public service:", err)
	}
}
