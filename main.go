package main

import (
	"log"
	"net/http"
	"os"

	"stayserve/config"
	"stayserve/jobs"
	"stayserve/models"
	"stayserve/routes"
	"stayserve/services"
	"stayserve/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func migrateTables() {
	if err := config.DB.AutoMigrate(&models.Provider{}, &models.Service{}, &models.Room{}, &models.Booking{}, &models.OfflinePeriod{}); err != nil {
		panic("Failed to migrate tables: " + err.Error())
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not loaded, using existing environment: %v", err)
	}

	router, m, c, err := config.InitApp()
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	migrateTables()

	offlineService := services.NewOfflineService(
		config.DB,
		services.NewRedisCache(config.RedisClient),
		logger.NewDefaultLogger(logger.InfoLevel),
	)
	jobs.SetOfflineReactivator(offlineService)

	if err := jobs.InitCronJobs(c, m); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	config.InitWebSocket(router, m)

	routes.SetupRoutes(router, config.DB, config.RedisClient, config.Cloudinary, m)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8083"
	}

	log.Println("Server starting on port " + port + "...")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
