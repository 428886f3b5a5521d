package main

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"healthsync-server/internal/config"
	"healthsync-server/internal/middleware"
	"healthsync-server/internal/models"
	"healthsync-server/internal/repository"
	"healthsync-server/internal/routes"
	"healthsync-server/internal/seed"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load environment variables; a missing .env just means the environment
	// is configured externally.
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Warn("no .env file loaded")
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("error loading config")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		log.WithError(err).Fatal("error connecting to database")
	}

	store := repository.NewStore(db)

	if cfg.SeedDemoData {
		if err := seed.Run(store, log); err != nil {
			log.WithError(err).Fatal("error seeding demo data")
		}
	}

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Request metrics and the endpoint exposing them
	metricsMiddleware, metricsHandler := middleware.Metrics()
	router.Use(metricsMiddleware)
	router.GET("/metrics", gin.WrapH(metricsHandler))

	// Set up routes
	routes.SetupRoutes(router, store, cfg)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	log.WithField("port", cfg.Port).Info("server starting")
	if err := router.Run(serverAddr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
