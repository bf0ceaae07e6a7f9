package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yoonly93/posikiCS/shared/config"
	"github.com/yoonly93/posikiCS/shared/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	// Initialize database
	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := config.MigrateDatabase(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize SES mailer
	mailer, err := NewMailer(db)
	if err != nil {
		log.Fatal("Failed to create mailer:", err)
	}

	// Notification consumer and retry worker
	consumer := NewNotificationConsumer(db, mailer)
	defer consumer.Close()
	retryWorker := NewRetryWorker(db, mailer)

	go consumer.Consume()
	go retryWorker.ProcessFailedNotifications()

	// Initialize Gin router
	router := gin.Default()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		utils.OKResponse(c, "Mailer service is healthy", nil)
	})

	// Retry statistics endpoint
	router.GET("/stats", func(c *gin.Context) {
		utils.OKResponse(c, "Retry statistics retrieved successfully", retryWorker.Stats())
	})

	// Start server
	port := os.Getenv("MAILER_SERVICE_PORT")
	if port == "" {
		port = "8004"
	}

	logrus.Infof("Mailer service starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start mailer service:", err)
	}
}
