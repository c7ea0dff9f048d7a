package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/bidworks/rfp-api/config"
	"github.com/bidworks/rfp-api/handlers"
	"github.com/bidworks/rfp-api/middleware"
	"github.com/bidworks/rfp-api/routes"
	"github.com/bidworks/rfp-api/services"
)

func main() {
	log := config.GetLogger()

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connected successfully")

	if err := config.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := services.SeedDemoData(seedCtx, db); err != nil {
		cancel()
		log.Fatalf("Failed to seed demo data: %v", err)
	}
	cancel()

	llm := services.NewLLMService()
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := llm.Ping(pingCtx); err != nil {
		log.Warnf("LLM backend unreachable, pipeline will run degraded: %v", err)
	} else {
		log.Info("LLM backend reachable")
	}
	cancel()

	orchestrator := services.NewOrchestrator(
		services.NewSalesAgent(llm),
		services.NewTechnicalAgent(llm),
		services.NewPricingAgent(),
	)

	wsHandler := handlers.NewWSHandler()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(frontendURL, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"ip":       c.ClientIP(),
		}).Info("request")
	})

	router.Use(middleware.RateLimiter())

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, db)
		routes.SetupCatalogRoutes(v1, db)
		routes.SetupPipelineRoutes(v1, db, orchestrator, wsHandler)
		routes.SetupBidRoutes(v1, db)
		routes.SetupAnalyticsRoutes(v1, db)
		v1.GET("/ws/pipeline", wsHandler.HandleWS)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		routes.SetupRFPRoutes(v1, protected, db)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Infof("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
