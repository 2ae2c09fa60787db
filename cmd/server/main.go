// @title           Mementiq Backend API
// @version         1.0.0
// @description     Backend API for the Mementiq video delivery platform. Periodically scans per-project media folders on the external asset store, detects editor deliveries, flips project state and hands clients a durable public viewing link.

// @contact.name   API Support
// @contact.email  support@mementiq.com

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"time"

	"mementiq-backend/docs"
	"mementiq-backend/internal/config"
	"mementiq-backend/internal/database"
	"mementiq-backend/internal/delivery"
	"mementiq-backend/internal/frameio"
	"mementiq-backend/internal/handlers"
	"mementiq-backend/internal/mailer"
	"mementiq-backend/internal/middleware"
	"mementiq-backend/internal/shares"
	"mementiq-backend/internal/supabase"
	"mementiq-backend/internal/trello"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(cfg.BaseURL)
		if err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	// Run migrations
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(); err != nil {
		migrator.Close()
		log.Fatalf("Migration failed: %v", err)
	}
	migrator.Close()

	// Project store
	dbClient, err := database.NewClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	// External collaborators
	frameioClient := frameio.NewClient(cfg.FrameioAPIBaseURL, cfg.FrameioAPIKey, cfg.FrameioAccountID)
	mailClient := mailer.NewClient(cfg.MailAPIBaseURL, cfg.MailAPIKey, cfg.MailFromAddress, cfg.MailDeliveryTemplateID)
	trelloClient := trello.NewClient(cfg.TrelloAPIBaseURL, cfg.TrelloAPIKey, cfg.TrelloAPIToken, cfg.TrelloApprovalListID)

	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}
	realtimeClient := supabase.NewRealtimeClient(supabaseClient.Supabase)

	// Delivery pipeline
	resolver := shares.NewResolver(frameioClient, dbClient, cfg.PublicShareDomain)
	collector := delivery.NewCollector(frameioClient)
	selector := delivery.NewSelector(dbClient)
	transitions := delivery.NewTransitionManager(dbClient, trelloClient, mailClient, realtimeClient, resolver, frameioClient)
	scanner := delivery.NewScanner(dbClient, collector, selector, transitions,
		time.Duration(cfg.ScanIntervalSeconds)*time.Second)

	scanner.Start(context.Background())
	defer scanner.Stop()
	log.Printf("Delivery scanner started, interval %ds", cfg.ScanIntervalSeconds)

	// Handlers
	scanHandler := handlers.NewScanHandler(scanner)
	sharesHandler := handlers.NewSharesHandler(dbClient, collector, selector, resolver)
	statusHandler := handlers.NewStatusHandler(dbClient)
	webhookHandler := handlers.NewWebhookHandler(cfg, dbClient, scanner)

	// Setup router
	router := gin.Default()

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	api.POST("/deliveries/scan", scanHandler.TriggerScan)
	api.POST("/projects/:project_id/share-link", sharesHandler.ResolveShareLink)
	api.GET("/projects/:project_id/delivery-status", statusHandler.GetDeliveryStatus)

	// Webhook (no auth middleware, uses its own token)
	router.POST("/api/v1/webhooks/frameio", webhookHandler.HandleWebhook)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
