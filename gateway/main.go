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

	// Initialize service clients
	serviceClients := &ServiceClients{
		AdminService:  NewServiceClient(config.GetEnv("ADMIN_SERVICE_URL", "http://localhost:8002")),
		PublicService: NewServiceClient(config.GetEnv("PUBLIC_SERVICE_URL", "http://localhost:8003")),
		MailerService: NewServiceClient(config.GetEnv("MAILER_SERVICE_URL", "http://localhost:8004")),
	}

	// Initialize Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		utils.OKResponse(c, "API Gateway is healthy", nil)
	})

	// Backend service status
	router.GET("/status", func(c *gin.Context) {
		utils.OKResponse(c, "Service status retrieved", serviceClients.GetServiceStatus())
	})

	// Authenticated tenant console routes; token validation happens in the
	// admin service
	admin := router.Group("/admin")
	{
		admin.Any("/*path", serviceClients.AdminService.ProxyRequest)
	}

	// Public widget and reader routes
	router.GET("/forms/:formId", serviceClients.PublicService.ProxyRequest)
	router.POST("/contacts", serviceClients.PublicService.ProxyRequest)
	router.GET("/legal/:appId/:docType/:lang", serviceClients.PublicService.ProxyRequest)

	// Mailer observability
	router.GET("/mailer/stats", func(c *gin.Context) {
		c.Request.URL.Path = "/stats"
		serviceClients.MailerService.ProxyRequest(c)
	})

	// Start server
	port := os.Getenv("API_GATEWAY_PORT")
	if port == "" {
		port = "8080"
	}

	logrus.Infof("API Gateway starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start API Gateway:", err)
	}
}
